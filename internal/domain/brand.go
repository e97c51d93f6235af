package domain

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Brand is a product brand managed from the admin back office.
type Brand struct {
	ID                  int64  `json:"id"`
	Name                string `json:"name"`
	FirstLetter         string `json:"firstLetter"`
	Category            string `json:"category"`
	Sort                int    `json:"sort"`
	FactoryStatus       int    `json:"factoryStatus"`
	ShowStatus          int    `json:"showStatus"`
	ProductCount        int    `json:"productCount"`
	ProductCommentCount int    `json:"productCommentCount"`
	Logo                string `json:"logo"`
	BigPic              string `json:"bigPic"`
	BrandStory          string `json:"brandStory"`
}

// BrandParam is the client-supplied part of a Brand, used by create and update.
type BrandParam struct {
	Name          string `json:"name" validate:"required,min=1,max=64"`
	FirstLetter   string `json:"firstLetter" validate:"max=8"`
	Category      string `json:"category" validate:"max=64"`
	Sort          int    `json:"sort" validate:"gte=0"`
	FactoryStatus int    `json:"factoryStatus" validate:"flag"`
	ShowStatus    int    `json:"showStatus" validate:"flag"`
	Logo          string `json:"logo" validate:"required,max=255"`
	BigPic        string `json:"bigPic" validate:"max=255"`
	BrandStory    string `json:"brandStory"`
}

// Normalize trims surrounding whitespace and fills FirstLetter from Name
// when the client left it blank.
func (p *BrandParam) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.FirstLetter = strings.TrimSpace(p.FirstLetter)
	p.Category = strings.TrimSpace(p.Category)
	if p.FirstLetter == "" {
		p.FirstLetter = FirstLetterOf(p.Name)
	}
}

// Apply copies the parameter fields onto b. ID and the product counters are
// left untouched.
func (p BrandParam) Apply(b *Brand) {
	b.Name = p.Name
	b.FirstLetter = p.FirstLetter
	b.Category = p.Category
	b.Sort = p.Sort
	b.FactoryStatus = p.FactoryStatus
	b.ShowStatus = p.ShowStatus
	b.Logo = p.Logo
	b.BigPic = p.BigPic
	b.BrandStory = p.BrandStory
}

// FirstLetterOf returns the upper-cased first rune of name, or "" for an
// empty name.
func FirstLetterOf(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if size == 0 || r == utf8.RuneError {
		return ""
	}
	return string(unicode.ToUpper(r))
}

// StatusField names a bulk-updatable 0/1 column of a brand.
type StatusField string

const (
	StatusFieldShow    StatusField = "show_status"
	StatusFieldFactory StatusField = "factory_status"
)

// Valid reports whether f is one of the known status columns.
func (f StatusField) Valid() bool {
	return f == StatusFieldShow || f == StatusFieldFactory
}
