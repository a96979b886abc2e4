// chatcli drives a configuration dialogue against a running chat server from
// the terminal. Useful for exercising the full flow without a frontend.
package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/allokoli/configurator/messages"

	"github.com/bytedance/sonic"
)

func main() {
	url := os.Getenv("CHAT_URL")
	if url == "" {
		url = "http://localhost:8080/chat"
	}

	client := &http.Client{Timeout: 60 * time.Second}
	scanner := bufio.NewScanner(os.Stdin)
	step := 0
	sessionID := ""

	fmt.Println("💬 AlloKoli configurator — tapez votre message (Ctrl+D pour quitter)")
	fmt.Print("> ")

	for scanner.Scan() {
		resp, err := sendTurn(client, url, messages.TurnRequest{
			Message:   scanner.Text(),
			Step:      step,
			SessionID: sessionID,
		})
		if err != nil {
			log.Fatalf("❌ Turn failed: %v", err)
		}

		fmt.Println()
		fmt.Println(resp.Content)
		for _, opt := range resp.Options {
			fmt.Printf("  [%s]\n", opt)
		}
		fmt.Println()

		sessionID = resp.SessionID
		if resp.NextStep != nil {
			step = *resp.NextStep
		}
		if resp.Component == messages.ComponentSuccess {
			fmt.Println("✅ Configuration terminée")
			return
		}
		fmt.Print("> ")
	}
}

func sendTurn(client *http.Client, url string, req messages.TurnRequest) (*messages.TurnResponse, error) {
	payload, err := sonic.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpResp, err := client.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}

	var resp messages.TurnResponse
	if err := sonic.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("bad response (%d): %s", httpResp.StatusCode, data)
	}
	return &resp, nil
}
