// Package words holds the word corpus: the target list secrets are drawn
// from and the accepted set guesses are checked against.
//
// A Corpus is built once at startup and never mutated afterwards, so every
// session may read it concurrently without locking. Accepted always
// includes every target.
package words

import (
	"bufio"
	"context"
	"crypto/rand"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"

	"example.com/wordle-tls/internal/game"
)

//go:embed default_targets.txt
var embeddedTargets string

//go:embed default_guesses.txt
var embeddedGuesses string

var ErrNoTargets = errors.New("words: target list is empty")

type Corpus struct {
	targets  []string
	accepted map[string]struct{}
}

// New normalizes both lists to uppercase 5-letter words, dropping anything
// else and duplicates.
func New(targets, guesses []string) (*Corpus, error) {
	c := &Corpus{accepted: make(map[string]struct{}, len(targets)+len(guesses))}
	for _, w := range targets {
		n, ok := normalize(w)
		if !ok {
			continue
		}
		if _, dup := c.accepted[n]; dup {
			continue
		}
		c.accepted[n] = struct{}{}
		c.targets = append(c.targets, n)
	}
	for _, w := range guesses {
		if n, ok := normalize(w); ok {
			c.accepted[n] = struct{}{}
		}
	}
	if len(c.targets) == 0 {
		return nil, ErrNoTargets
	}
	return c, nil
}

// RandomTarget draws a target with crypto/rand.
func (c *Corpus) RandomTarget() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(c.targets))))
	if err != nil {
		return "", fmt.Errorf("words: pick target: %w", err)
	}
	return c.targets[n.Int64()], nil
}

// Contains reports whether w (any case) is an accepted guess.
func (c *Corpus) Contains(w string) bool {
	_, ok := c.accepted[strings.ToUpper(w)]
	return ok
}

// Stats returns the number of targets and accepted words.
func (c *Corpus) Stats() (targets, accepted int) {
	return len(c.targets), len(c.accepted)
}

// Source supplies raw word lists from some storage.
type Source interface {
	Load(ctx context.Context) (targets, guesses []string, err error)
}

// Load reads src once and builds the corpus.
func Load(ctx context.Context, src Source) (*Corpus, error) {
	targets, guesses, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}
	return New(targets, guesses)
}

// FileSource reads line-oriented lists. With only GuessesPath set the same
// list serves as targets; with neither set the embedded lists are used.
type FileSource struct {
	TargetsPath string
	GuessesPath string
}

func (s FileSource) Load(ctx context.Context) ([]string, []string, error) {
	switch {
	case s.TargetsPath != "":
		targets, err := ReadFile(s.TargetsPath)
		if err != nil {
			return nil, nil, err
		}
		if s.GuessesPath == "" {
			return targets, nil, nil
		}
		guesses, err := ReadFile(s.GuessesPath)
		if err != nil {
			return nil, nil, err
		}
		return targets, guesses, nil

	case s.GuessesPath != "":
		guesses, err := ReadFile(s.GuessesPath)
		if err != nil {
			return nil, nil, err
		}
		return guesses, guesses, nil

	default:
		return Embedded{}.Load(ctx)
	}
}

// Embedded is the small built-in corpus.
type Embedded struct{}

func (Embedded) Load(context.Context) ([]string, []string, error) {
	targets, err := ReadLines(strings.NewReader(embeddedTargets))
	if err != nil {
		return nil, nil, err
	}
	guesses, err := ReadLines(strings.NewReader(embeddedGuesses))
	if err != nil {
		return nil, nil, err
	}
	return targets, guesses, nil
}

func ReadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("words: %w", err)
	}
	defer f.Close()
	return ReadLines(f)
}

// ReadLines returns the non-empty trimmed lines of r.
func ReadLines(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if w := strings.TrimSpace(sc.Text()); w != "" {
			out = append(out, w)
		}
	}
	return out, sc.Err()
}

func normalize(w string) (string, bool) {
	n, err := game.CheckStructure(strings.TrimSpace(w))
	return n, err == nil
}
