package deck

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"study-importer/internal/studydump"
)

type Deck struct {
	ID             uuid.UUID `gorm:"type:text;primaryKey" json:"id"`
	Title          string    `gorm:"column:title;not null" json:"title"`
	SummaryTitle   string    `gorm:"column:summary_title" json:"summary_title,omitempty"`
	SummaryContent string    `gorm:"column:summary_content" json:"summary_content,omitempty"`
	Dialect        string    `gorm:"column:dialect;not null" json:"dialect"`
	CardCount      int       `gorm:"column:card_count;not null;default:0" json:"card_count"`
	Cards          []Card    `gorm:"constraint:OnDelete:CASCADE;foreignKey:DeckID;references:ID" json:"cards,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (Deck) TableName() string {
	return "deck"
}

func (d *Deck) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

type Card struct {
	ID        uuid.UUID      `gorm:"type:text;primaryKey" json:"id"`
	DeckID    uuid.UUID      `gorm:"type:text;not null;index" json:"deck_id"`
	Position  int            `gorm:"column:position;not null" json:"position"`
	Question  string         `gorm:"column:question;not null" json:"question"`
	Answer    string         `gorm:"column:answer;not null" json:"answer"`
	Tags      datatypes.JSON `gorm:"column:tags" json:"tags"`
	Level     string         `gorm:"column:level;not null;default:'basic'" json:"level"`
	CreatedAt time.Time      `json:"created_at"`
}

func (Card) TableName() string {
	return "card"
}

func (c *Card) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Entry converts the stored card back into a parser entry.
func (c Card) Entry() studydump.Entry {
	tags := []string{}
	if len(c.Tags) > 0 {
		// Tags are advisory; a row that fails to decode shows none rather
		// than hiding the card.
		if err := json.Unmarshal(c.Tags, &tags); err != nil {
			tags = []string{}
		}
	}
	return studydump.Entry{
		Question: c.Question,
		Answer:   c.Answer,
		Tags:     tags,
		Level:    studydump.Level(c.Level),
	}
}

func newCard(position int, e studydump.Entry) (Card, error) {
	tags := e.Tags
	if tags == nil {
		tags = []string{}
	}
	raw, err := encodeTags(tags)
	if err != nil {
		return Card{}, err
	}
	level := e.Level
	if level == "" {
		level = studydump.LevelBasic
	}
	return Card{
		Position: position,
		Question: e.Question,
		Answer:   e.Answer,
		Tags:     datatypes.JSON(raw),
		Level:    string(level),
	}, nil
}

// encodeTags stores tags without HTML escaping so that LIKE searches match
// tags such as "Q&A" byte for byte.
func encodeTags(tags []string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(tags); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
