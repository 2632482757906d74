// Package deck persists accepted study dumps as decks of cards in SQLite.
package deck

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"study-importer/internal/logger"
	"study-importer/internal/studydump"
)

const (
	defaultTitle       = "Untitled"
	defaultSearchLimit = 50
	maxTitleRunes      = 120
)

type Store struct {
	db  *gorm.DB
	log *logger.Logger
}

// Open opens (creating if needed) the SQLite database at path and migrates it.
func Open(path string, baseLog *logger.Logger) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open deck db %s: %w", path, err)
	}
	return New(db, baseLog)
}

// New wraps an existing connection and migrates the deck tables.
func New(db *gorm.DB, baseLog *logger.Logger) (*Store, error) {
	if baseLog == nil {
		baseLog = logger.Nop()
	}
	if err := db.AutoMigrate(&Deck{}, &Card{}); err != nil {
		return nil, fmt.Errorf("migrate deck tables: %w", err)
	}
	return &Store{db: db, log: baseLog.With("component", "deck.Store")}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Import stores r as a new deck. Results the validator objects to are
// refused with a *ValidationError.
func (s *Store) Import(ctx context.Context, title string, r studydump.Result) (*Deck, error) {
	if issues := studydump.Validate(r); len(issues) > 0 {
		s.log.Warn("import refused", "issues", issues)
		return nil, &ValidationError{Issues: issues}
	}

	d := &Deck{
		Title:     deckTitle(title, r),
		Dialect:   string(r.DetectedDialect),
		CardCount: len(r.Entries),
	}
	if r.Summary != nil {
		d.SummaryTitle = r.Summary.Title
		d.SummaryContent = r.Summary.Content
	}
	cards := make([]Card, 0, len(r.Entries))
	for i, e := range r.Entries {
		c, err := newCard(i+1, e)
		if err != nil {
			return nil, fmt.Errorf("encode card %d: %w", i+1, err)
		}
		cards = append(cards, c)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Cards").Create(d).Error; err != nil {
			return err
		}
		if len(cards) == 0 {
			return nil
		}
		for i := range cards {
			cards[i].DeckID = d.ID
		}
		return tx.CreateInBatches(&cards, 100).Error
	})
	if err != nil {
		return nil, fmt.Errorf("import deck: %w", err)
	}
	d.Cards = cards
	s.log.Info("deck imported", "deck_id", d.ID, "cards", len(cards), "dialect", d.Dialect)
	return d, nil
}

func deckTitle(title string, r studydump.Result) string {
	candidates := []string{title}
	if r.Summary != nil {
		candidates = append(candidates, r.Summary.Title)
	}
	if len(r.Entries) > 0 {
		candidates = append(candidates, r.Entries[0].Question)
	}
	for _, c := range candidates {
		c = strings.TrimSpace(strings.SplitN(c, "\n", 2)[0])
		if c == "" {
			continue
		}
		if runes := []rune(c); len(runes) > maxTitleRunes {
			c = string(runes[:maxTitleRunes])
		}
		return c
	}
	return defaultTitle
}

// Decks lists decks, newest first, without their cards.
func (s *Store) Decks(ctx context.Context) ([]Deck, error) {
	var decks []Deck
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&decks).Error; err != nil {
		return nil, err
	}
	return decks, nil
}

func (s *Store) Deck(ctx context.Context, id uuid.UUID) (*Deck, error) {
	var d Deck
	err := s.db.WithContext(ctx).First(&d, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Cards returns the cards of a deck in their original order.
func (s *Store) Cards(ctx context.Context, deckID uuid.UUID) ([]Card, error) {
	if _, err := s.Deck(ctx, deckID); err != nil {
		return nil, err
	}
	var cards []Card
	if err := s.db.WithContext(ctx).
		Where("deck_id = ?", deckID).
		Order("position ASC").
		Find(&cards).Error; err != nil {
		return nil, err
	}
	return cards, nil
}

// Search matches query as a substring of question, answer or tags.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]Card, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []Card{}, nil
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	pattern := "%" + escapeLike(query) + "%"
	var cards []Card
	if err := s.db.WithContext(ctx).
		Where(`question LIKE ? ESCAPE '\' OR answer LIKE ? ESCAPE '\' OR tags LIKE ? ESCAPE '\'`, pattern, pattern, pattern).
		Order("deck_id, position ASC").
		Limit(limit).
		Find(&cards).Error; err != nil {
		return nil, err
	}
	return cards, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// Delete removes a deck and its cards.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&Deck{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Where("deck_id = ?", id).Delete(&Card{}).Error
	})
}
