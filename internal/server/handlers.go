package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"study-importer/internal/deck"
	"study-importer/internal/studydump"
)

const maxSearchLimit = 200

type parseRequest struct {
	Text string `json:"text"`
}

type parseResponse struct {
	Result studydump.Result `json:"result"`
	Issues []string         `json:"issues"`
}

type validateRequest struct {
	Result *studydump.Result `json:"result"`
}

type importRequest struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

type deckResponse struct {
	deck.Deck
	Cards []cardResponse `json:"cards,omitempty"`
}

type cardResponse struct {
	ID       uuid.UUID       `json:"id"`
	DeckID   uuid.UUID       `json:"deck_id"`
	Position int             `json:"position"`
	Question string          `json:"question"`
	Answer   string          `json:"answer"`
	Tags     []string        `json:"tags"`
	Level    studydump.Level `json:"level"`
}

func toCardResponses(cards []deck.Card) []cardResponse {
	out := make([]cardResponse, 0, len(cards))
	for _, c := range cards {
		e := c.Entry()
		out = append(out, cardResponse{
			ID:       c.ID,
			DeckID:   c.DeckID,
			Position: c.Position,
			Question: e.Question,
			Answer:   e.Answer,
			Tags:     e.Tags,
			Level:    e.Level,
		})
	}
	return out
}

func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "storage": s.store != nil})
}

// POST /api/parse
func (s *Server) parse(c *gin.Context) {
	var req parseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	r := studydump.Parse(req.Text)
	ok(c, parseResponse{Result: r, Issues: nonNil(studydump.Validate(r))})
}

// POST /api/validate
func (s *Server) validate(c *gin.Context) {
	var req validateRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Result == nil {
		badRequest(c, "request must contain a result")
		return
	}
	ok(c, gin.H{"issues": nonNil(studydump.Validate(*req.Result))})
}

func (s *Server) requireStore(c *gin.Context) {
	if s.store == nil {
		unavailable(c)
		return
	}
	c.Next()
}

// GET /api/decks
func (s *Server) listDecks(c *gin.Context) {
	decks, err := s.store.Decks(c.Request.Context())
	if err != nil {
		internalError(c, err)
		return
	}
	if decks == nil {
		decks = []deck.Deck{}
	}
	ok(c, decks)
}

// POST /api/decks
func (s *Server) importDeck(c *gin.Context) {
	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	d, err := s.store.Import(c.Request.Context(), req.Title, studydump.Parse(req.Text))
	var verr *deck.ValidationError
	switch {
	case errors.As(err, &verr):
		invalid(c, verr.Issues)
		return
	case err != nil:
		internalError(c, err)
		return
	}
	created(c, deckResponse{Deck: *d, Cards: toCardResponses(d.Cards)})
}

func deckID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		badRequest(c, "invalid deck id")
		return uuid.Nil, false
	}
	return id, true
}

// GET /api/decks/:id
func (s *Server) getDeck(c *gin.Context) {
	id, valid := deckID(c)
	if !valid {
		return
	}
	d, err := s.store.Deck(c.Request.Context(), id)
	if s.storeError(c, err) {
		return
	}
	ok(c, deckResponse{Deck: *d})
}

// GET /api/decks/:id/cards
func (s *Server) listCards(c *gin.Context) {
	id, valid := deckID(c)
	if !valid {
		return
	}
	cards, err := s.store.Cards(c.Request.Context(), id)
	if s.storeError(c, err) {
		return
	}
	ok(c, toCardResponses(cards))
}

// DELETE /api/decks/:id
func (s *Server) deleteDeck(c *gin.Context) {
	id, valid := deckID(c)
	if !valid {
		return
	}
	if s.storeError(c, s.store.Delete(c.Request.Context(), id)) {
		return
	}
	s.log.Info("deck deleted", "deck_id", id)
	noContent(c)
}

// GET /api/cards/search?q=&limit=
func (s *Server) searchCards(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		badRequest(c, "query parameter q is required")
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			badRequest(c, "limit must be a positive integer")
			return
		}
		limit = min(n, maxSearchLimit)
	}
	cards, err := s.store.Search(c.Request.Context(), q, limit)
	if err != nil {
		internalError(c, err)
		return
	}
	ok(c, toCardResponses(cards))
}

// storeError writes the response for err and reports whether it did.
func (s *Server) storeError(c *gin.Context, err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, deck.ErrNotFound):
		notFound(c)
	default:
		s.log.Error("deck store failed", "path", c.FullPath(), "error", err)
		internalError(c, err)
	}
	return true
}

func nonNil(issues []string) []string {
	if issues == nil {
		return []string{}
	}
	return issues
}
