package gtts

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"voice-chat/internal/infra"
)

// maxChunk is the longest text the translate_tts endpoint accepts per request.
const maxChunk = 100

// Client synthesizes MP3 speech through the Google Translate text-to-speech
// endpoint. Long text is split into pieces whose MP3 frames are concatenated.
type Client struct {
	httpClient *http.Client
	baseURL    string
	language   string
}

func NewClient(language string, timeout time.Duration) *Client {
	return NewClientWithURL(language, "https://translate.google.com", timeout)
}

func NewClientWithURL(language, baseURL string, timeout time.Duration) *Client {
	if language == "" {
		language = "en"
	}
	return &Client{
		httpClient: infra.NewHTTPClient(timeout),
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		language:   language,
	}
}

func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	chunks := tokenize(text, maxChunk)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("no text to speak")
	}

	var audio bytes.Buffer
	for i, chunk := range chunks {
		if err := c.fetch(ctx, chunk, i, len(chunks), &audio); err != nil {
			return nil, fmt.Errorf("fetching chunk %d/%d: %w", i+1, len(chunks), err)
		}
	}
	return audio.Bytes(), nil
}

func (c *Client) fetch(ctx context.Context, chunk string, idx, total int, w io.Writer) error {
	query := url.Values{}
	query.Set("ie", "UTF-8")
	query.Set("q", chunk)
	query.Set("tl", c.language)
	query.Set("client", "tw-ob")
	query.Set("total", strconv.Itoa(total))
	query.Set("idx", strconv.Itoa(idx))
	query.Set("textlen", strconv.Itoa(utf8.RuneCountInString(chunk)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/translate_tts?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Referer", "http://translate.google.com/")
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64)")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if err := infra.CheckResponse("translate_tts", resp); err != nil {
		return err
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return fmt.Errorf("reading audio: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("empty audio")
	}
	return nil
}

// tokenize splits text into pieces of at most limit runes, cutting after
// sentence punctuation when possible, then at whitespace, then hard.
func tokenize(text string, limit int) []string {
	var chunks []string
	rest := []rune(strings.TrimSpace(text))

	for len(rest) > 0 {
		if len(rest) <= limit {
			chunks = appendChunk(chunks, string(rest))
			break
		}

		cut := lastIndex(rest[:limit], isPunct)
		if cut < 0 {
			cut = lastIndex(rest[:limit], unicode.IsSpace)
		}
		if cut < 0 {
			cut = limit - 1
		}

		chunks = appendChunk(chunks, string(rest[:cut+1]))
		rest = []rune(strings.TrimLeftFunc(string(rest[cut+1:]), unicode.IsSpace))
	}
	return chunks
}

func appendChunk(chunks []string, chunk string) []string {
	chunk = strings.TrimSpace(chunk)
	if chunk == "" || strings.IndexFunc(chunk, func(r rune) bool { return !isPunct(r) && !unicode.IsSpace(r) }) < 0 {
		return chunks
	}
	return append(chunks, chunk)
}

func lastIndex(runes []rune, match func(rune) bool) int {
	for i := len(runes) - 1; i > 0; i-- {
		if match(runes[i]) {
			return i
		}
	}
	return -1
}

func isPunct(r rune) bool {
	switch r {
	case '.', ',', ';', ':', '!', '?', '¡', '¿', '…', '\n', '—', '(', ')', '[', ']':
		return true
	}
	return false
}
