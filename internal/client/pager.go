package client

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"prompt-gallery-go/internal/models"
)

// Pager accumulates gallery pages. Each (resource, page) pair has at most
// one fetch in flight; a second trigger while one is running is a no-op, and
// completions for a page the pager has moved past are dropped rather than
// appended out of order.
type Pager struct {
	client *Client
	limit  int

	mu       sync.Mutex
	prompts  []models.Prompt
	page     int
	hasMore  bool
	gen      int
	inflight map[string]context.CancelFunc
}

// NewPager returns a pager over this client's prompt listing.
func (c *Client) NewPager(limit int) *Pager {
	return NewPager(c, limit)
}

func NewPager(c *Client, limit int) *Pager {
	return &Pager{
		client:   c,
		limit:    limit,
		page:     1,
		hasMore:  true,
		inflight: make(map[string]context.CancelFunc),
	}
}

// LoadMore fetches the next page and appends it. Returns nil without
// fetching when exhausted or when the same page is already in flight.
func (p *Pager) LoadMore(ctx context.Context) error {
	p.mu.Lock()
	if !p.hasMore {
		p.mu.Unlock()
		return nil
	}
	key := fmt.Sprintf("prompts:%d", p.page)
	if _, running := p.inflight[key]; running {
		p.mu.Unlock()
		return nil
	}
	fetchPage := p.page
	fetchGen := p.gen
	fetchCtx, cancel := context.WithCancel(ctx)
	p.inflight[key] = cancel
	p.mu.Unlock()

	resp, err := p.client.List(fetchCtx, fetchPage, p.limit)

	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.inflight, key)
	cancel()
	if fetchGen != p.gen {
		// Reset happened while this fetch was in flight; drop the result.
		return nil
	}
	if err != nil {
		return err
	}
	p.prompts = append(p.prompts, resp.Data...)
	p.page++
	p.hasMore = resp.Pagination.HasMore
	return nil
}

// Reset drops loaded prompts and cancels in-flight fetches.
func (p *Pager) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for key, cancel := range p.inflight {
		cancel()
		delete(p.inflight, key)
	}
	p.prompts = nil
	p.page = 1
	p.hasMore = true
	p.gen++
}

func (p *Pager) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hasMore
}

// Prompts returns a copy of everything loaded so far.
func (p *Pager) Prompts() []models.Prompt {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.Prompt, len(p.prompts))
	copy(out, p.prompts)
	return out
}

// Filter narrows loaded prompts by case-insensitive substring match on
// title or description. It never fetches unloaded pages.
func (p *Pager) Filter(q string) []models.Prompt {
	q = strings.ToLower(strings.TrimSpace(q))
	all := p.Prompts()
	if q == "" {
		return all
	}
	matched := []models.Prompt{}
	for _, prompt := range all {
		if strings.Contains(strings.ToLower(prompt.Title), q) ||
			strings.Contains(strings.ToLower(prompt.Description), q) {
			matched = append(matched, prompt)
		}
	}
	return matched
}
