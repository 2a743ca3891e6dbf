package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/phishy-token-checker/pkg/cache"
	"github.com/phishy-token-checker/pkg/checker"
	"github.com/phishy-token-checker/pkg/classifier"
	"github.com/phishy-token-checker/pkg/config"
)

// TokenChecker is the analysis entry point the HTTP layer drives.
type TokenChecker interface {
	Check(ctx context.Context, req checker.CheckRequest) (*checker.Result, error)
}

const recentTokenLimit = 100

type Server struct {
	cfg     *config.Config
	checker TokenChecker
	recent  *cache.Ring
}

func New(cfg *config.Config, c TokenChecker) *Server {
	return &Server{cfg: cfg, checker: c, recent: cache.NewRing(recentTokenLimit)}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// API endpoints
	mux.HandleFunc("/api/check", cors(s.handleCheck))
	mux.HandleFunc("/api/recent-phishy", cors(s.handleRecentPhishy))

	// Serve frontend
	mux.HandleFunc("/", s.serveFrontend)

	return mux
}

func cors(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(200)
			return
		}
		h(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg, errType string) {
	body := map[string]interface{}{"success": false, "error": msg}
	if errType != "" {
		body["error_type"] = errType
	}
	writeJSON(w, status, body)
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		http.Error(w, "POST only", 405)
		return
	}

	body, _ := io.ReadAll(r.Body)
	var req struct {
		TokenAddress string `json:"token_address"`
		BondingCurve string `json:"bonding_curve"`
		TokenType    string `json:"token_type"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, 400, "Invalid JSON body", "")
		return
	}

	res, err := s.checker.Check(r.Context(), checker.CheckRequest{
		TokenAddress: req.TokenAddress,
		BondingCurve: req.BondingCurve,
		TokenType:    req.TokenType,
	})
	if err != nil {
		var verr *checker.ValidationError
		var cerr *checker.ConfigError
		var uerr *checker.UpstreamError
		switch {
		case errors.As(err, &verr):
			writeError(w, 400, verr.Msg, verr.Type)
		case errors.As(err, &cerr):
			writeError(w, 500, cerr.Msg, "")
		case errors.As(err, &uerr):
			log.Error().Err(err).Str("token", req.TokenAddress).Msg("upstream failure")
			writeError(w, 502, "Upstream data provider error: "+uerr.Err.Error(), "")
		default:
			log.Error().Err(err).Str("token", req.TokenAddress).Msg("check failed")
			writeError(w, 500, err.Error(), "")
		}
		return
	}

	if res.Phishy {
		s.recent.Add(cache.Entry{
			TokenAddress: res.TokenAddress,
			TokenType:    res.TokenType,
			PhishyCount:  res.PhishyCount,
			Timestamp:    time.Now().UTC().Format(time.RFC3339),
			Totals:       *res.Totals,
		})
	}

	writeJSON(w, 200, checkResponse(res))
}

func checkResponse(res *checker.Result) map[string]interface{} {
	verdicts := res.Verdicts
	if verdicts == nil {
		verdicts = []classifier.PhishyVerdict{}
	}
	data := map[string]interface{}{
		"total_addresses":  res.TotalAddresses,
		"phishy_count":     res.PhishyCount,
		"normal_count":     res.NormalCount,
		"phishy_addresses": verdicts,
	}
	if res.Totals != nil {
		data["totals"] = res.Totals
	}
	if len(res.TopHolders) > 0 {
		data["top_holders"] = res.TopHolders
		data["top_holder_pct"] = res.TopHolderPct
	}
	if res.Metadata != nil {
		data["token_metadata"] = res.Metadata
	}

	body := map[string]interface{}{
		"success":       true,
		"phishy":        res.Phishy,
		"token_address": res.TokenAddress,
		"token_type":    res.TokenType,
		"data":          data,
	}
	if res.Message != "" {
		body["message"] = res.Message
	}
	return body
}

func (s *Server) handleRecentPhishy(w http.ResponseWriter, r *http.Request) {
	tokens := s.recent.Snapshot()
	writeJSON(w, 200, map[string]interface{}{
		"success": true,
		"tokens":  tokens,
		"count":   len(tokens),
	})
}

func (s *Server) serveFrontend(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.Error(w, "not found", 404)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(htmlPage))
}
