package rules

import (
	"encoding/json"

	lru "github.com/hashicorp/golang-lru/v2"
)

const DefaultCacheSize = 256

type compiled struct {
	rule Rule
	err  error
}

// Compiler parses rules once and caches the trees keyed by their canonical
// JSON encoding. It is safe for concurrent use.
type Compiler struct {
	cache *lru.Cache[string, compiled]
}

func NewCompiler(size int) (*Compiler, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, compiled](size)
	if err != nil {
		return nil, err
	}
	return &Compiler{cache: cache}, nil
}

// CompileJSON parses a JSON rule, using the cache when the canonical form
// has been seen before.
func (c *Compiler) CompileJSON(data []byte) (Rule, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ParseError{Reason: err.Error()}
	}
	return c.Compile(raw)
}

func (c *Compiler) Compile(raw interface{}) (Rule, error) {
	if raw == nil {
		return nil, nil
	}
	// encoding/json sorts map keys, so equal trees share a key.
	key, err := json.Marshal(raw)
	if err != nil {
		return Parse(raw)
	}
	if hit, ok := c.cache.Get(string(key)); ok {
		return hit.rule, hit.err
	}
	r, err := Parse(raw)
	c.cache.Add(string(key), compiled{rule: r, err: err})
	return r, err
}

// MatchesJSON evaluates a JSON rule, failing closed on malformed input.
func (c *Compiler) MatchesJSON(data []byte, ctx Context) bool {
	r, err := c.CompileJSON(data)
	if err != nil {
		return false
	}
	return Evaluate(r, ctx)
}

func (c *Compiler) Len() int {
	return c.cache.Len()
}

func (c *Compiler) Purge() {
	c.cache.Purge()
}
