package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"daily-journal-be/internal/dto"
	"daily-journal-be/internal/entity"
	"daily-journal-be/pkg/cryptobox"

	"github.com/google/uuid"
)

// Entry is the client-side view of a journal entry, content already opened.
// DecryptErr is set when the stored payload could not be decrypted; Content
// is empty in that case and the rest of the batch is unaffected.
type Entry struct {
	Id         uuid.UUID
	Content    string
	Encrypted  bool
	EntryDate  string
	CreatedAt  time.Time
	UpdatedAt  *time.Time
	DecryptErr error
}

// sealOutbound applies the write-side boundary policy: with an active key
// the content must encrypt, and any failure aborts the write. Plaintext is
// only ever sent when the session has no key.
func (c *Client) sealOutbound(content string) (payload, encoding string, err error) {
	if !c.codec.Enabled() {
		return content, string(entity.EncodingPlaintext), nil
	}
	envelope, err := c.codec.Encrypt(content)
	if err != nil {
		return "", "", fmt.Errorf("encrypt content: %w", err)
	}
	return envelope, string(entity.EncodingEncrypted), nil
}

// openInbound applies the read-side policy. The at-rest tag decides; for
// legacy rows without a tag the structural envelope check is the fallback.
// Failures mark the single item, never the batch.
func (c *Client) openInbound(payload, encoding string) (string, error) {
	encrypted := encoding == string(entity.EncodingEncrypted) ||
		(encoding == "" && cryptobox.IsEnvelope(payload))
	if !encrypted {
		return payload, nil
	}
	return c.codec.Decrypt(payload)
}

func (c *Client) AddEntry(ctx context.Context, entryDate, content string) (uuid.UUID, error) {
	payload, encoding, err := c.sealOutbound(content)
	if err != nil {
		return uuid.Nil, err
	}

	req := dto.CreateEntryRequest{
		Content:         payload,
		ContentEncoding: encoding,
		EntryDate:       entryDate,
	}
	var res dto.CreateEntryResponse
	if err := c.do(ctx, http.MethodPost, "/api/entry/v1", req, &res); err != nil {
		return uuid.Nil, err
	}
	return res.Id, nil
}

func (c *Client) UpdateEntry(ctx context.Context, id uuid.UUID, content string) error {
	payload, encoding, err := c.sealOutbound(content)
	if err != nil {
		return err
	}

	req := dto.UpdateEntryRequest{
		Content:         payload,
		ContentEncoding: encoding,
	}
	return c.do(ctx, http.MethodPut, "/api/entry/v1/"+id.String(), req, nil)
}

func (c *Client) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/entry/v1/"+id.String(), nil, nil)
}

func (c *Client) GetEntry(ctx context.Context, id uuid.UUID) (*Entry, error) {
	var res dto.ShowEntryResponse
	if err := c.do(ctx, http.MethodGet, "/api/entry/v1/"+id.String(), nil, &res); err != nil {
		return nil, err
	}
	entry := c.toClientEntry(&res)
	return &entry, nil
}

// ListEntries fetches one day's entries. Mixed histories are normal: rows
// written before encryption was enabled come back plaintext, later ones as
// envelopes, and each item is opened independently.
func (c *Client) ListEntries(ctx context.Context, date string) ([]Entry, error) {
	path := "/api/entry/v1?date=" + url.QueryEscape(date)
	return c.listEntries(ctx, path)
}

func (c *Client) ListEntriesRange(ctx context.Context, from, to string) ([]Entry, error) {
	path := "/api/entry/v1?from=" + url.QueryEscape(from) + "&to=" + url.QueryEscape(to)
	return c.listEntries(ctx, path)
}

func (c *Client) listEntries(ctx context.Context, path string) ([]Entry, error) {
	var res dto.ListEntriesResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &res); err != nil {
		return nil, err
	}

	entries := make([]Entry, len(res.Entries))
	for i := range res.Entries {
		entries[i] = c.toClientEntry(&res.Entries[i])
	}
	return entries, nil
}

func (c *Client) toClientEntry(res *dto.ShowEntryResponse) Entry {
	entry := Entry{
		Id:        res.Id,
		Encrypted: res.ContentEncoding == string(entity.EncodingEncrypted),
		EntryDate: res.EntryDate,
		CreatedAt: res.CreatedAt,
		UpdatedAt: res.UpdatedAt,
	}

	content, err := c.openInbound(res.Content, res.ContentEncoding)
	if err != nil {
		entry.DecryptErr = err
		return entry
	}
	entry.Content = content
	return entry
}

func (c *Client) Calendar(ctx context.Context, from, to string) ([]dto.CalendarDaySummary, error) {
	path := "/api/entry/v1/calendar?from=" + url.QueryEscape(from) + "&to=" + url.QueryEscape(to)
	var res dto.CalendarSummaryResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &res); err != nil {
		return nil, err
	}
	return res.Days, nil
}

// Analyze requests a period analysis. For an encrypted account the server
// cannot read the entries, so the client fetches and opens them first and
// submits the plaintexts with the request. Items that fail to decrypt are
// left out rather than blocking the rest.
func (c *Client) Analyze(ctx context.Context, period, periodStart string) (*dto.AnalysisResponse, error) {
	req := dto.GenerateAnalysisRequest{
		Period:      period,
		PeriodStart: periodStart,
	}

	if c.codec.Enabled() {
		from, to, err := expandPeriod(period, periodStart)
		if err != nil {
			return nil, err
		}
		entries, err := c.ListEntriesRange(ctx, from, to)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if e.DecryptErr != nil {
				continue
			}
			req.Contents = append(req.Contents, dto.EntryDigest{Id: e.Id, Content: e.Content})
		}
	}

	var res dto.AnalysisResponse
	if err := c.do(ctx, http.MethodPost, "/api/analysis/v1/generate", req, &res); err != nil {
		return nil, err
	}

	// A previously sealed analysis comes back as an envelope; a fresh one is
	// the model's plaintext. Open either way, then make sure an encrypted
	// account does not leave plaintext on the server.
	sealedAtRest := res.ContentEncoding == string(entity.EncodingEncrypted)
	content, err := c.openInbound(res.Content, res.ContentEncoding)
	if err != nil {
		return nil, err
	}
	res.Content = content
	res.ContentEncoding = string(entity.EncodingPlaintext)

	if c.codec.Enabled() && !sealedAtRest {
		if err := c.SaveAnalysis(ctx, res.Id, content); err != nil {
			return nil, fmt.Errorf("seal analysis at rest: %w", err)
		}
	}
	return &res, nil
}

// GetAnalysis fetches a stored analysis and opens its content. Analyses a
// client sealed earlier come back as envelopes and are decrypted here.
func (c *Client) GetAnalysis(ctx context.Context, period, periodStart string) (*dto.AnalysisResponse, error) {
	path := "/api/analysis/v1/show?period=" + url.QueryEscape(period) +
		"&period_start=" + url.QueryEscape(periodStart)
	var res dto.AnalysisResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &res); err != nil {
		return nil, err
	}
	content, err := c.openInbound(res.Content, res.ContentEncoding)
	if err != nil {
		return nil, err
	}
	res.Content = content
	res.ContentEncoding = string(entity.EncodingPlaintext)
	return &res, nil
}

// SaveAnalysis overwrites a stored analysis body, sealing it first when the
// session has a key. Encrypted accounts use this right after Analyze so the
// generated plaintext does not stay on the server.
func (c *Client) SaveAnalysis(ctx context.Context, id uuid.UUID, content string) error {
	payload, encoding, err := c.sealOutbound(content)
	if err != nil {
		return err
	}
	req := dto.UpdateAnalysisRequest{Content: payload, ContentEncoding: encoding}
	return c.do(ctx, http.MethodPut, "/api/analysis/v1/"+id.String(), req, nil)
}

func expandPeriod(period, periodStart string) (string, string, error) {
	start, err := time.Parse("2006-01-02", periodStart)
	if err != nil {
		return "", "", fmt.Errorf("invalid period_start: %w", err)
	}
	switch period {
	case "week":
		return periodStart, start.AddDate(0, 0, 6).Format("2006-01-02"), nil
	case "month":
		first := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, start.Location())
		return first.Format("2006-01-02"), first.AddDate(0, 1, -1).Format("2006-01-02"), nil
	default:
		return periodStart, periodStart, nil
	}
}
