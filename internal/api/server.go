package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Blessedbiello/NFT-Marketplace-sub001/internal/coordinator"
	"github.com/Blessedbiello/NFT-Marketplace-sub001/internal/entity"
	"github.com/Blessedbiello/NFT-Marketplace-sub001/internal/prefs"
	"github.com/Blessedbiello/NFT-Marketplace-sub001/internal/store"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Server is the local HTTP surface the UI talks to: reads from the state
// store, mutations through the coordinator, preferences through the
// preference store.
type Server struct {
	store       *store.Store
	coordinator coordinator.Coordinator
	prefs       prefs.Preferences
}

func NewServer(st *store.Store, c coordinator.Coordinator, p prefs.Preferences) Server {
	return Server{st, c, p}
}

func (s Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.handleHealth).Methods("GET")

	r.HandleFunc("/marketplace", s.handleGetMarketplace).Methods("GET")
	r.HandleFunc("/marketplace", s.handleInitializeMarketplace).Methods("POST")
	r.HandleFunc("/marketplace/fee", s.handleUpdateFee).Methods("PUT")

	r.HandleFunc("/listings", s.handleGetListings).Methods("GET")
	r.HandleFunc("/listings", s.handleListNFT).Methods("POST")
	r.HandleFunc("/listings/{id}", s.handleGetListing).Methods("GET")
	r.HandleFunc("/listings/{id}", s.handleDelistNFT).Methods("DELETE")
	r.HandleFunc("/listings/{id}/purchase", s.handlePurchaseNFT).Methods("POST")

	r.HandleFunc("/stats", s.handleGetStats).Methods("GET")
	r.HandleFunc("/portfolio", s.handleGetPortfolio).Methods("GET")

	r.HandleFunc("/favorites", s.handleGetFavorites).Methods("GET")
	r.HandleFunc("/favorites", s.handleAddFavorite).Methods("POST")
	r.HandleFunc("/favorites/{id}", s.handleRemoveFavorite).Methods("DELETE")

	r.HandleFunc("/theme", s.handleGetTheme).Methods("GET")
	r.HandleFunc("/theme", s.handleSetTheme).Methods("PUT")

	return r
}

func (s Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}

func (s Server) handleGetMarketplace(w http.ResponseWriter, r *http.Request) {
	marketplace, err := s.store.GetMarketplace()
	if err != nil {
		http.Error(w, "Marketplace not initialized", http.StatusNotFound)
		return
	}

	writeJSON(w, marketplace)
}

func (s Server) handleInitializeMarketplace(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Fee      float64 `json:"fee"`
		Treasury string  `json:"treasury"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	marketplace, err := s.coordinator.InitializeMarketplace(r.Context(), body.Fee, body.Treasury)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, marketplace)
}

func (s Server) handleUpdateFee(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Fee float64 `json:"fee"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := s.coordinator.UpdateFee(r.Context(), body.Fee); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s Server) handleGetListings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.store.Listings())
}

func (s Server) handleGetListing(w http.ResponseWriter, r *http.Request) {
	listing, err := s.store.GetListing(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Listing not available", http.StatusNotFound)
		return
	}

	writeJSON(w, listing)
}

func (s Server) handleListNFT(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Mint     string          `json:"mint"`
		Price    float64         `json:"price"`
		Metadata entity.Metadata `json:"metadata"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	listing, err := s.coordinator.ListNFT(r.Context(), body.Mint, body.Price, body.Metadata)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, listing)
}

func (s Server) handleDelistNFT(w http.ResponseWriter, r *http.Request) {
	if err := s.coordinator.DelistNFT(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s Server) handlePurchaseNFT(w http.ResponseWriter, r *http.Request) {
	sale, err := s.coordinator.PurchaseNFT(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, sale)
}

func (s Server) handleGetStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.store.Stats())
}

func (s Server) handleGetPortfolio(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.store.Portfolio())
}

func (s Server) handleGetFavorites(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.prefs.GetFavorites())
}

func (s Server) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	var listing entity.Listing
	if err := json.NewDecoder(r.Body).Decode(&listing); err != nil || listing.ID == "" {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	s.prefs.AddFavorite(listing)
	w.WriteHeader(http.StatusNoContent)
}

func (s Server) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	s.prefs.RemoveFavorite(mux.Vars(r)["id"])
	w.WriteHeader(http.StatusNoContent)
}

func (s Server) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{
		"theme":    string(s.prefs.GetTheme()),
		"resolved": string(s.prefs.ResolvedTheme()),
	})
}

func (s Server) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Theme entity.ThemePreference `json:"theme"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := s.prefs.SetTheme(body.Theme); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().With(zap.Error(err)).Error("[Api] Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, err error) {
	var vErr coordinator.ValidationError

	switch {
	case errors.As(err, &vErr):
		http.Error(w, vErr.Error(), http.StatusBadRequest)
	case errors.Is(err, coordinator.ErrConflict):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, err.Error(), http.StatusBadGateway)
	}
}
