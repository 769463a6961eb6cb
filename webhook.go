package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"sync"
	"time"

	"github.com/remeh/sizedwaitgroup"
	"github.com/tidwall/sjson"
	"golang.org/x/time/rate"
)

const maxWebhookWorkers = 4

// webhookClient posts notifications to a Discord webhook. Posts run in the
// background and are never retried. When every worker is busy the message
// is dropped rather than queued.
type webhookClient struct {
	url     string
	http    *http.Client
	limiter *rate.Limiter
	wg      sizedwaitgroup.SizedWaitGroup
	slots   chan struct{}

	mu     sync.Mutex
	closed bool

	// onResult is called after every post attempt.
	onResult func(err error)
}

func newWebhookClient(url string, timeout time.Duration, perMin int) *webhookClient {
	if perMin <= 0 {
		perMin = 1
	}
	return &webhookClient{
		url:     strings.TrimSpace(url),
		http:    &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMin)), 1),
		wg:      sizedwaitgroup.New(maxWebhookWorkers),
		slots:   make(chan struct{}, maxWebhookWorkers),
	}
}

// webhookBody builds the multipart form Discord expects: a JSON payload
// field and a PNG attachment.
func webhookBody(content string, png []byte) (*bytes.Buffer, string, error) {
	payload, err := sjson.Set("", "content", content)
	if err != nil {
		return nil, "", fmt.Errorf("payload: %w", err)
	}
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("payload_json", payload); err != nil {
		return nil, "", err
	}
	if png != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="file"; filename="image.png"`)
		h.Set("Content-Type", "image/png")
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(png); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// Post sends one message and waits for the response.
func (c *webhookClient) Post(ctx context.Context, content string, png []byte) error {
	if c.url == "" {
		return errNoWebhook
	}
	body, contentType, err := webhookBody(content, png)
	if err != nil {
		return err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("webhook: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, body)
	if err != nil {
		return fmt.Errorf("webhook: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("webhook: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return fmt.Errorf("webhook: status=%d body=%s", res.StatusCode, strings.TrimSpace(string(msg)))
	}
	return nil
}

var (
	errNoWebhook     = errors.New("webhook: no url configured")
	errWebhookBusy   = errors.New("webhook: all workers busy")
	errWebhookClosed = errors.New("webhook: client closed")
)

// Send captures a frame and posts content in the background. It never
// blocks; failures are logged only.
func (c *webhookClient) Send(player, content string, frames frameSource) {
	if c.url == "" {
		logDebug("webhook: no url configured, dropping %q", content)
		return
	}
	if err := c.acquire(); err != nil {
		logWarn("dropping Discord message: %v", err)
		c.report(err)
		return
	}
	go func() {
		defer c.release()
		png, err := captureFrame(frames, content)
		if err != nil {
			logWarn("Error converting image to byte array: %v", err)
			c.report(err)
			return
		}
		if gs.SaveScreenshots {
			saveScreenshot(player, png)
		}
		err = c.Post(context.Background(), content, png)
		if err != nil {
			logError("Error submitting message to Discord webhook: %v", err)
		} else {
			logInfo("Successfully sent message to Discord.")
		}
		c.report(err)
	}()
}

func (c *webhookClient) report(err error) {
	if c.onResult != nil {
		c.onResult(err)
	}
}

// acquire takes a worker slot without waiting. The slot count matches the
// wait group size, so wg.Add never blocks here.
func (c *webhookClient) acquire() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errWebhookClosed
	}
	select {
	case c.slots <- struct{}{}:
	default:
		return errWebhookBusy
	}
	c.wg.Add()
	return nil
}

func (c *webhookClient) release() {
	c.wg.Done()
	<-c.slots
}

// Flush stops accepting new messages and waits for background posts to
// finish.
func (c *webhookClient) Flush() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.wg.Wait()
}
