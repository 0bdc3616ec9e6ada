//go:build integration
// +build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/network/netpoll"

	"github.com/routinnet/routix-platform-ai/internal/config"
	"github.com/routinnet/routix-platform-ai/internal/handler"
	"github.com/routinnet/routix-platform-ai/internal/infrastructure/ai"
	infradb "github.com/routinnet/routix-platform-ai/internal/infrastructure/database"
	"github.com/routinnet/routix-platform-ai/internal/router"
	"github.com/routinnet/routix-platform-ai/internal/storage"
	"github.com/routinnet/routix-platform-ai/internal/usecase"
	"github.com/routinnet/routix-platform-ai/internal/worker"
	"github.com/routinnet/routix-platform-ai/internal/ws"
)

// TestChatFlowHTTP runs the full register/login/chat/generation flow
// against a real server on a throwaway sqlite database.
// Run with: go test -tags integration ./test/integration/
func TestChatFlowHTTP(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
	slog.SetDefault(logger)

	tmpDir := t.TempDir()

	cfg := &config.Config{
		Server: config.ServerConfig{
			Host: "127.0.0.1",
			Port: 18080,
			Mode: "debug",
		},
		JWT: config.JWTConfig{
			Secret:     "integration-test-secret-0123456789abcdef",
			Timeout:    time.Hour,
			MaxRefresh: time.Hour,
		},
		Database: config.DatabaseConfig{
			Driver:   "sqlite",
			Database: filepath.Join(tmpDir, "routix.db"),
		},
		Storage: config.StorageConfig{
			UploadDir:     filepath.Join(tmpDir, "uploads"),
			MaxUploadSize: 1 << 20,
			AllowedTypes:  []string{"image/png"},
		},
		Generation: config.GenerationConfig{
			Workers:       2,
			QueueSize:     8,
			StepDelay:     10 * time.Millisecond,
			SignupCredits: 10,
		},
	}

	db, err := infradb.Open(cfg.Database)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	userRepo := infradb.NewUserRepository(db)
	convRepo := infradb.NewConversationRepository(db)
	genRepo := infradb.NewGenerationRepository(db)
	algoRepo := infradb.NewAlgorithmRepository(db)
	creditRepo := infradb.NewCreditRepository(db)

	store, err := storage.NewLocalStore(cfg.Storage)
	if err != nil {
		t.Fatalf("failed to init storage: %v", err)
	}

	hub := ws.NewHub(logger)
	assistant := ai.NewClient(cfg.Assistant, logger) // no API key: keyword fallback
	generator, err := ai.NewGenerator(cfg.Generation.StepDelay, store.BaseDir(), logger)
	if err != nil {
		t.Fatalf("failed to init generator: %v", err)
	}

	pool := worker.NewPool(genRepo, algoRepo, userRepo, creditRepo, generator, hub,
		cfg.Generation.Workers, cfg.Generation.QueueSize, logger)
	pool.Start(context.Background())
	defer pool.Shutdown()

	userUC := usecase.NewUserUsecase(userRepo, creditRepo, cfg.Generation.SignupCredits, logger)
	genUC := usecase.NewGenerationUsecase(genRepo, algoRepo, userRepo, creditRepo, pool, hub, logger)
	chatUC := usecase.NewChatUsecase(convRepo, assistant, genUC, hub, logger)
	creditUC := usecase.NewCreditUsecase(userRepo, creditRepo, logger)

	h := server.New(
		server.WithHostPorts(cfg.GetServerAddr()),
		server.WithTransport(netpoll.NewTransporter),
	)
	router.Setup(h,
		handler.NewUserHandler(userUC, cfg.JWT, logger),
		handler.NewChatHandler(chatUC, logger),
		handler.NewGenerationHandler(genUC, creditUC, logger),
		handler.NewFileHandler(store, logger),
		handler.NewWSHandler(hub, chatUC, logger),
		handler.NewHealthHandler(db),
		store.BaseDir(),
	)

	go func() {
		if err := h.Run(); err != nil {
			logger.Error("server failed", "error", err)
		}
	}()
	time.Sleep(2 * time.Second)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		h.Shutdown(ctx)
	}()

	baseURL := fmt.Sprintf("http://%s", cfg.GetServerAddr())
	client := &http.Client{Timeout: 30 * time.Second}

	var token string

	t.Run("register and login", func(t *testing.T) {
		status, _ := postJSON(t, client, baseURL+"/api/v1/auth/register", "", map[string]string{
			"email":    "tester@example.com",
			"username": "tester",
			"password": "supersecret1",
		})
		if status != http.StatusCreated {
			t.Fatalf("expected 201 from register, got %d", status)
		}

		status, body := postJSON(t, client, baseURL+"/api/v1/auth/login", "", map[string]string{
			"email":    "tester@example.com",
			"password": "supersecret1",
		})
		if status != http.StatusOK {
			t.Fatalf("expected 200 from login, got %d: %s", status, body)
		}

		var loginResp struct {
			Code string `json:"code"`
			Data struct {
				Token string `json:"token"`
				User  struct {
					Credits int `json:"credits"`
				} `json:"user"`
			} `json:"data"`
		}
		if err := json.Unmarshal(body, &loginResp); err != nil {
			t.Fatalf("failed to decode login response: %v", err)
		}
		if loginResp.Data.Token == "" {
			t.Fatal("expected a JWT token")
		}
		if loginResp.Data.User.Credits != 10 {
			t.Errorf("expected signup grant of 10 credits, got %d", loginResp.Data.User.Credits)
		}
		token = loginResp.Data.Token
	})

	t.Run("chat round trip stores both sides", func(t *testing.T) {
		status, body := postJSON(t, client, baseURL+"/api/v1/chat", token, map[string]string{
			"content": "hello there",
		})
		if status != http.StatusOK {
			t.Fatalf("expected 200 from chat, got %d: %s", status, body)
		}

		var chatResp struct {
			Code string `json:"code"`
			Data struct {
				Conversation struct {
					ID    string `json:"id"`
					Title string `json:"title"`
				} `json:"conversation"`
				UserMessage struct {
					Content string `json:"content"`
				} `json:"user_message"`
				Assistant struct {
					Role    string `json:"role"`
					Content string `json:"content"`
				} `json:"assistant_message"`
			} `json:"data"`
		}
		if err := json.Unmarshal(body, &chatResp); err != nil {
			t.Fatalf("failed to decode chat response: %v", err)
		}
		if chatResp.Data.Conversation.ID == "" {
			t.Error("expected a conversation to be created")
		}
		if chatResp.Data.Assistant.Content == "" {
			t.Error("expected a non-empty assistant reply")
		}
	})

	t.Run("generation completes and debits credits", func(t *testing.T) {
		status, body := postJSON(t, client, baseURL+"/api/v1/generations", token, map[string]string{
			"algorithm": "basic",
			"prompt":    "epic gaming thumbnail",
		})
		if status != http.StatusCreated {
			t.Fatalf("expected 201 from generation start, got %d: %s", status, body)
		}

		var startResp struct {
			Data struct {
				ID     string `json:"id"`
				Status string `json:"status"`
			} `json:"data"`
		}
		if err := json.Unmarshal(body, &startResp); err != nil {
			t.Fatalf("failed to decode start response: %v", err)
		}

		// Wait for the worker to finish the job.
		deadline := time.Now().Add(10 * time.Second)
		var finalStatus, resultURL string
		for time.Now().Before(deadline) {
			_, getBody := getJSON(t, client, baseURL+"/api/v1/generations/"+startResp.Data.ID, token)
			var getResp struct {
				Data struct {
					Status    string `json:"status"`
					ResultURL string `json:"result_url"`
				} `json:"data"`
			}
			if err := json.Unmarshal(getBody, &getResp); err != nil {
				t.Fatalf("failed to decode generation: %v", err)
			}
			finalStatus, resultURL = getResp.Data.Status, getResp.Data.ResultURL
			if finalStatus == "completed" || finalStatus == "failed" {
				break
			}
			time.Sleep(100 * time.Millisecond)
		}

		if finalStatus != "completed" {
			t.Fatalf("expected generation to complete, got %q", finalStatus)
		}
		if resultURL == "" {
			t.Fatal("expected a result URL")
		}

		// The URL must actually serve the rendered thumbnail.
		resp, err := client.Get(baseURL + resultURL)
		if err != nil {
			t.Fatalf("failed to fetch result: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200 fetching %s, got %d", resultURL, resp.StatusCode)
		}
		img, err := io.ReadAll(resp.Body)
		if err != nil {
			t.Fatalf("failed to read result body: %v", err)
		}
		if !bytes.HasPrefix(img, []byte("\x89PNG")) {
			t.Error("result is not a png")
		}

		// Signup grant was 10, basic costs 1.
		checkBalance(t, client, baseURL, token)
	})

	t.Run("uploaded file is retrievable", func(t *testing.T) {
		payload := []byte("\x89PNG\r\n\x1a\nfake-reference-image")

		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part := make(textproto.MIMEHeader)
		part.Set("Content-Disposition", `form-data; name="file"; filename="ref.png"`)
		part.Set("Content-Type", "image/png")
		pw, err := mw.CreatePart(part)
		if err != nil {
			t.Fatalf("failed to build multipart: %v", err)
		}
		pw.Write(payload)
		mw.Close()

		req, err := http.NewRequest(http.MethodPost, baseURL+"/api/v1/files", &buf)
		if err != nil {
			t.Fatalf("failed to create request: %v", err)
		}
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("upload failed: %v", err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("expected 201 from upload, got %d: %s", resp.StatusCode, body)
		}

		var uploadResp struct {
			Data struct {
				URL string `json:"url"`
			} `json:"data"`
		}
		if err := json.Unmarshal(body, &uploadResp); err != nil {
			t.Fatalf("failed to decode upload response: %v", err)
		}
		if uploadResp.Data.URL == "" {
			t.Fatal("expected an upload URL")
		}

		got, err := client.Get(baseURL + uploadResp.Data.URL)
		if err != nil {
			t.Fatalf("failed to fetch upload: %v", err)
		}
		defer got.Body.Close()
		if got.StatusCode != http.StatusOK {
			t.Fatalf("expected 200 fetching %s, got %d", uploadResp.Data.URL, got.StatusCode)
		}
		served, _ := io.ReadAll(got.Body)
		if !bytes.Equal(served, payload) {
			t.Error("served upload does not match the uploaded bytes")
		}
	})
}

// checkBalance asserts the signup grant of 10 minus one basic
// generation.
func checkBalance(t *testing.T, client *http.Client, baseURL, token string) {
	t.Helper()
	_, balBody := getJSON(t, client, baseURL+"/api/v1/credits/balance", token)
	var balResp struct {
		Data struct {
			Credits int `json:"credits"`
		} `json:"data"`
	}
	if err := json.Unmarshal(balBody, &balResp); err != nil {
		t.Fatalf("failed to decode balance: %v", err)
	}
	if balResp.Data.Credits != 9 {
		t.Errorf("expected balance 9 after one basic generation, got %d", balResp.Data.Credits)
	}
}

func postJSON(t *testing.T, client *http.Client, url, token string, payload any) (int, []byte) {
	t.Helper()
	bodyBytes, _ := json.Marshal(payload)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, body
}

func getJSON(t *testing.T, client *http.Client, url, token string) (int, []byte) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, body
}
