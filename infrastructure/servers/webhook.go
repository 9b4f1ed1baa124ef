package servers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"wa-highlighter/application"
	"wa-highlighter/core"
)

// maxBodySize bounds webhook bodies. Meta batches notifications well below it.
const maxBodySize = 1 << 20

const signatureHeader = "X-Hub-Signature-256"

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// WebhookServer is the HTTP surface: a health check plus the webhook
// verification and event routes.
type WebhookServer struct {
	processor   *application.WebhookProcessor
	verifyToken string
	appSecret   string
	logger      core.Logger
	mux         *http.ServeMux
	now         func() time.Time
}

func InitializeWebhookServer(processor *application.WebhookProcessor, verifyToken, appSecret string, logger core.Logger) (*WebhookServer, error) {
	if processor == nil || logger == nil {
		return nil, errors.New("processor and logger are required")
	}
	server := &WebhookServer{
		processor:   processor,
		verifyToken: verifyToken,
		appSecret:   appSecret,
		logger:      logger,
		mux:         http.NewServeMux(),
		now:         time.Now,
	}
	server.mux.HandleFunc("GET /health", server.handleHealth)
	server.mux.HandleFunc("GET /webhook", server.handleVerification)
	server.mux.HandleFunc("POST /webhook", server.handleEvent)
	return server, nil
}

func (server *WebhookServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	server.mux.ServeHTTP(w, r)
}

func (server *WebhookServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(healthResponse{Status: "ok", Timestamp: server.now().UTC()}); err != nil {
		server.logger.Error("error writing health response: %v", err)
	}
}

func (server *WebhookServer) handleVerification(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	challenge, err := application.VerifyWebhook(query.Get("hub.mode"), query.Get("hub.verify_token"), query.Get("hub.challenge"), server.verifyToken, server.logger)
	if err != nil {
		w.WriteHeader(core.StatusCode(err))
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(challenge))
}

func (server *WebhookServer) handleEvent(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		server.logger.Warn("error reading webhook body: %v", err)
		server.respond(w, core.NewValidationError("unreadable webhook body", nil))
		return
	}

	if server.appSecret != "" {
		if err := application.VerifySignature(body, r.Header.Get(signatureHeader), server.appSecret); err != nil {
			server.logger.Error("rejected webhook event: %v", err)
			server.respond(w, err)
			return
		}
	}

	payload, err := application.DecodeWebhookPayload(body)
	if err != nil {
		server.logger.Warn("rejected webhook event: %v", err)
		server.respond(w, err)
		return
	}

	server.respond(w, server.processor.ProcessEvent(r.Context(), payload))
}

// respond writes the status only; callers have already logged the error.
func (server *WebhookServer) respond(w http.ResponseWriter, err error) {
	w.WriteHeader(core.StatusCode(err))
}
