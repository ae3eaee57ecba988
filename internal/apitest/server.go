// Package apitest hosts an in-memory CRM backend for transport-level
// tests: real HTTP, the backend's JSON envelopes, the error-body
// convention, bearer-token auth.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"

	"crm-console/internal/domain"
)

const ValidToken = "test-token"

type Server struct {
	mu sync.Mutex

	Customers []domain.Customer
	User      domain.User

	// Requests records every "METHOD path?query" seen, in order.
	Requests []string
}

// NewServer seeds a backend with one admin user and starts it on httptest.
func NewServer() (*Server, *httptest.Server) {
	s := &Server{
		User: domain.User{ID: 1, Username: "admin", FullName: "Admin", Role: domain.RoleAdmin, IsActive: true},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", s.handleLogin)
	mux.HandleFunc("/auth/logout", s.requireAuth(s.handleLogout))
	mux.HandleFunc("/auth/me", s.requireAuth(s.handleMe))
	mux.HandleFunc("/customers", s.requireAuth(s.handleCustomers))
	mux.HandleFunc("/customers/", s.requireAuth(s.handleCustomerByID))

	ts := httptest.NewServer(s.record(mux))
	return s, ts
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		line := r.Method + " " + r.URL.Path
		if r.URL.RawQuery != "" {
			line += "?" + r.URL.RawQuery
		}
		s.Requests = append(s.Requests, line)
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+ValidToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username != "admin" || req.Password != "secret" {
		writeError(w, http.StatusBadRequest, "invalid username or password")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"access_token": ValidToken,
		"user":         s.User,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"user": s.User})
}

func (s *Server) handleCustomers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listCustomers(w, r)
	case http.MethodPost:
		var c domain.Customer
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		s.mu.Lock()
		c.ID = int64(len(s.Customers) + 1)
		s.Customers = append(s.Customers, c)
		s.mu.Unlock()
		writeJSON(w, http.StatusCreated, c)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) listCustomers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	if perPage < 1 {
		perPage = 10
	}
	search := strings.ToLower(q.Get("search"))

	s.mu.Lock()
	var matched []domain.Customer
	for _, c := range s.Customers {
		if search == "" || strings.Contains(strings.ToLower(c.Name), search) {
			matched = append(matched, c)
		}
	}
	s.mu.Unlock()

	pages := (len(matched) + perPage - 1) / perPage
	if pages == 0 {
		pages = 1
	}
	start := (page - 1) * perPage
	if start > len(matched) {
		start = len(matched)
	}
	end := start + perPage
	if end > len(matched) {
		end = len(matched)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"customers":    matched[start:end],
		"current_page": page,
		"pages":        pages,
	})
}

func (s *Server) handleCustomerByID(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimPrefix(r.URL.Path, "/customers/")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	idx := -1
	for i, c := range s.Customers {
		if c.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		writeError(w, http.StatusNotFound, "customer not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.Customers[idx])
	case http.MethodPut:
		var c domain.Customer
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		c.ID = id
		s.Customers[idx] = c
		writeJSON(w, http.StatusOK, c)
	case http.MethodDelete:
		s.Customers = append(s.Customers[:idx], s.Customers[idx+1:]...)
		w.WriteHeader(http.StatusNoContent)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
