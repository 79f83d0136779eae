package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Drives a running server through the @mention flow:
//
//	JWT_SECRET=... RECIPE_ID=<seeded recipe> go run ./scripts
var baseURL = getEnv("BASE_URL", "http://localhost:3000/api")

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type editorState struct {
	SessionId string `json:"session_id"`
	Text      string `json:"text"`
	Handled   bool   `json:"handled"`
	State     struct {
		Trigger *struct {
			SearchText string `json:"search_text"`
		} `json:"trigger"`
		Dropdown struct {
			State      string `json:"state"`
			Candidates []struct {
				RawName string `json:"raw_name"`
				Kind    string `json:"kind"`
			} `json:"candidates"`
		} `json:"dropdown"`
		Version uint64 `json:"version"`
	} `json:"state"`
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func mintToken() string {
	claims := jwt.MapClaims{
		"user_id": uuid.NewString(),
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		color.Red("Failed to sign token: %v", err)
		os.Exit(1)
	}
	return token
}

func sendRequest(method, url, token string, body interface{}) (*editorState, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := (&http.Client{Timeout: 10 * time.Second}).Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, fmt.Errorf("%s: %s", resp.Status, env.Message)
	}

	var state editorState
	if len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, &state); err != nil {
			return nil, err
		}
	}
	return &state, nil
}

func report(step string, state *editorState, err error) {
	color.Yellow("\n%s", step)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("text=%q version=%d handled=%v", state.Text, state.State.Version, state.Handled)
	if state.State.Trigger != nil {
		fmt.Printf("trigger @%s, dropdown %s:\n", state.State.Trigger.SearchText, state.State.Dropdown.State)
		for _, c := range state.State.Dropdown.Candidates {
			fmt.Printf("  - %s (%s)\n", c.RawName, c.Kind)
		}
	}
}

func main() {
	recipeId := os.Getenv("RECIPE_ID")
	if recipeId == "" {
		color.Red("RECIPE_ID is not set (run cmd/seed first)")
		os.Exit(1)
	}

	color.Cyan("🚀 Steps editor smoke test against %s\n", baseURL)
	token := mintToken()

	state, err := sendRequest(http.MethodPost, "/steps-editor/v1", token, map[string]interface{}{
		"recipe_id": recipeId,
		"container": map[string]float64{"top": 100, "left": 40, "width": 600, "height": 400},
	})
	report("1. Open session", state, err)
	sessionId := state.SessionId
	events := "/steps-editor/v1/" + sessionId + "/events"

	state, err = sendRequest(http.MethodPost, events, token, map[string]interface{}{"type": "insert_text", "text": "Melt the @"})
	report("2. Type a trigger", state, err)

	state, err = sendRequest(http.MethodPost, events, token, map[string]interface{}{"type": "insert_text", "text": "버"})
	report("3. Narrow the candidates", state, err)

	state, err = sendRequest(http.MethodPost, events, token, map[string]interface{}{"type": "key_down", "key": "Enter"})
	report("4. Commit the highlighted candidate", state, err)

	state, err = sendRequest(http.MethodPost, events, token, map[string]interface{}{"type": "key_down", "key": "Backspace"})
	report("5. Backspace removes the whole token", state, err)

	_, err = sendRequest(http.MethodDelete, "/steps-editor/v1/"+sessionId, token, nil)
	if err != nil {
		color.Red("Close failed: %v", err)
		os.Exit(1)
	}
	color.Green("\nSession closed; final document handed to autosave")
}
