// Command chat is a terminal client for the invocation API. It keeps
// one session across the whole conversation and prints the agent's
// replies as they arrive.
package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"github.com/cervezafortuna/cicerone/messages"
)

func main() {
	baseURL := os.Getenv("AGENT_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	client := &http.Client{Timeout: 120 * time.Second}
	scanner := bufio.NewScanner(os.Stdin)
	sessionID := ""

	fmt.Println("🍺 Beer Tasting Cicerone. Type a message, or 'quit' to exit.")
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if text == "quit" || text == "exit" {
			break
		}

		resp, err := invoke(client, baseURL, sessionID, text)
		if err != nil {
			log.Printf("❌ Request failed: %v", err)
			continue
		}
		sessionID = resp.SessionID

		fmt.Println(resp.Response)
		if resp.Metadata != nil {
			fmt.Printf("  (beers tasted: %d, messages: %d)\n",
				resp.Metadata.BeersTastedCount, resp.Metadata.MessageCount)
		}
	}
	fmt.Println("¡Salud! 🍻")
}

func invoke(client *http.Client, baseURL, sessionID, text string) (*messages.InvocationResponse, error) {
	payload, err := sonic.Marshal(messages.InvocationRequest{
		Prompt:    text,
		SessionID: sessionID,
	})
	if err != nil {
		return nil, err
	}

	httpResp, err := client.Post(baseURL+"/invocations", "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}

	var resp messages.InvocationResponse
	if err := sonic.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("invalid response (%d): %s", httpResp.StatusCode, body)
	}
	return &resp, nil
}
