package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"mywallet/internal/auth"
	"mywallet/internal/ledger"
	"mywallet/internal/log"
	"mywallet/internal/models"
	"mywallet/internal/sanitize"
	"mywallet/internal/storage"
	"mywallet/internal/validate"
)

// MaxBodyBytes caps the size of request bodies.
const MaxBodyBytes = 1 << 20

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	credentials *auth.Credentials
	sessions    *auth.Sessions
	ledger      *ledger.Service
	health      Pinger
	logger      *log.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(credentials *auth.Credentials, sessions *auth.Sessions, ledger *ledger.Service, health Pinger, logger *log.Logger) *Handlers {
	return &Handlers{
		credentials: credentials,
		sessions:    sessions,
		ledger:      ledger,
		health:      health,
		logger:      logger.WithComponent(log.ComponentHTTP),
	}
}

// Register adds every route to mux.
func (h *Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /sign-up", h.SignUp)
	mux.HandleFunc("POST /sign-in", h.SignIn)
	mux.HandleFunc("DELETE /logout", h.requireToken(h.Logout))

	mux.HandleFunc("GET /wallet", h.requireToken(h.ListEntries))
	mux.HandleFunc("POST /wallet", h.requireToken(h.CreateEntry))
	mux.HandleFunc("GET /oneWallet/{id}", h.requireToken(h.GetEntry))
	mux.HandleFunc("PUT /wallet/{id}", h.requireToken(h.UpdateEntry))
	mux.HandleFunc("DELETE /wallet/{id}", h.requireToken(h.DeleteEntry))

	mux.HandleFunc("GET /healthz", h.Health)
}

// signInResponse is returned by a successful sign-in.
type signInResponse struct {
	Token  string `json:"token"`
	UserID int64  `json:"userID"`
	Name   string `json:"name"`
}

// entryResponse is the wire form of a ledger entry.
type entryResponse struct {
	ID          int64       `json:"id"`
	UserID      int64       `json:"userID"`
	Type        string      `json:"type"`
	Value       json.Number `json:"value"`
	Description string      `json:"description"`
	Date        string      `json:"date"`
}

func newEntryResponse(e *models.Entry) entryResponse {
	return entryResponse{
		ID:          e.ID,
		UserID:      e.UserID,
		Type:        e.Kind.Wire(),
		Value:       json.Number(e.Amount.String()),
		Description: e.Description,
		Date:        e.CreatedOn,
	}
}

// SignUp registers a new account.
func (h *Handlers) SignUp(w http.ResponseWriter, r *http.Request) {
	payload, err := h.decode(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	req, err := validate.Signup(payload)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	clean := sanitize.Fields(map[string]string{
		"name":     req.Name,
		"email":    req.Email,
		"password": req.Password,
	})

	if _, err := h.credentials.Register(r.Context(), clean["name"], clean["email"], clean["password"]); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeText(w, http.StatusOK, http.StatusText(http.StatusOK))
}

// SignIn checks credentials and opens a new session.
func (h *Handlers) SignIn(w http.ResponseWriter, r *http.Request) {
	payload, err := h.decode(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	req, err := validate.Login(payload)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	clean := sanitize.Fields(map[string]string{"email": req.Email, "password": req.Password})

	user, err := h.credentials.Authenticate(r.Context(), clean["email"], clean["password"])
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeText(w, http.StatusNotFound, "user not found")
			return
		}
		h.writeError(w, r, err)
		return
	}

	session, err := h.sessions.Create(r.Context(), user)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, signInResponse{Token: session.Token, UserID: session.UserID, Name: session.Name})
}

// Logout revokes the presented session.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Revoke(r.Context(), r.Header.Get("Authorization")); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeText(w, http.StatusNotFound, "session not found")
			return
		}
		h.writeError(w, r, err)
		return
	}
	writeText(w, http.StatusOK, http.StatusText(http.StatusOK))
}

// ListEntries returns every entry of the authenticated user.
func (h *Handlers) ListEntries(w http.ResponseWriter, r *http.Request) {
	session, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	entries, err := h.ledger.List(r.Context(), session.UserID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp := make([]entryResponse, 0, len(entries))
	for i := range entries {
		resp = append(resp, newEntryResponse(&entries[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetEntry returns one entry. A missing entry yields 200 with an empty body.
func (h *Handlers) GetEntry(w http.ResponseWriter, r *http.Request) {
	session, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	id, ok := entryID(r)
	if !ok {
		w.WriteHeader(http.StatusOK)
		return
	}

	entry, err := h.ledger.Get(r.Context(), session.UserID, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			w.WriteHeader(http.StatusOK)
			return
		}
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newEntryResponse(entry))
}

// CreateEntry records a new entry owned by the authenticated user.
func (h *Handlers) CreateEntry(w http.ResponseWriter, r *http.Request) {
	payload, err := h.decode(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	req, err := validate.Entry(payload)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	description := sanitize.Clean(req.Description)

	session, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	entry, err := h.ledger.Create(r.Context(), session.UserID, req.Kind, req.Amount, description)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newEntryResponse(entry))
}

// UpdateEntry overwrites the amount and description of an entry.
func (h *Handlers) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	payload, err := h.decode(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	req, err := validate.EntryUpdate(payload)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	description := sanitize.Clean(req.Description)

	session, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	id, ok := entryID(r)
	if !ok {
		writeText(w, http.StatusNotFound, "entry not found")
		return
	}

	if err := h.ledger.Update(r.Context(), session.UserID, id, req.Amount, description); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeText(w, http.StatusNotFound, "entry not found")
			return
		}
		h.writeError(w, r, err)
		return
	}
	writeText(w, http.StatusOK, http.StatusText(http.StatusOK))
}

// DeleteEntry removes an entry. Deleting a missing entry succeeds.
func (h *Handlers) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	session, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	if id, ok := entryID(r); ok {
		if err := h.ledger.Delete(r.Context(), session.UserID, id); err != nil {
			h.writeError(w, r, err)
			return
		}
	}
	writeText(w, http.StatusOK, http.StatusText(http.StatusOK))
}

// Health reports whether the database is reachable.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.health.Ping(r.Context()); err != nil {
		h.logger.LogError(r.Context(), "Health check failed", err, log.OpRead, nil)
		writeText(w, http.StatusServiceUnavailable, "unavailable")
		return
	}
	writeText(w, http.StatusOK, "ok")
}

// requireToken rejects requests whose Authorization header is absent or not
// shaped like a session token, before any body is read.
func (h *Handlers) requireToken(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := validate.BearerToken(r.Header.Get("Authorization")); err != nil {
			h.writeError(w, r, err)
			return
		}
		next(w, r)
	}
}

// authenticate resolves the request's session, writing the error response
// when there is none.
func (h *Handlers) authenticate(w http.ResponseWriter, r *http.Request) (*models.Session, bool) {
	session, err := h.sessions.Resolve(r.Context(), r.Header.Get("Authorization"))
	if err != nil {
		h.writeError(w, r, err)
		return nil, false
	}
	return session, true
}

func (h *Handlers) decode(w http.ResponseWriter, r *http.Request) (validate.Payload, error) {
	return validate.Decode(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
}

func entryID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil
}
