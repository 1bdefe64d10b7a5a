package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// SendBatchSummary posts a one-line summary of a finished extraction run to
// the NTFY endpoint.
func SendBatchSummary(ctx context.Context, client *http.Client, endpoint string, succeeded, failed int) error {
	message := fmt.Sprintf("SmartFrame extraction finished: %d succeeded, %d failed.", succeeded, failed)
	return Send(ctx, client, endpoint, message)
}

// Send sends a message to the requested endpoint using HTTP POST.
func Send(ctx context.Context, client *http.Client, endpoint, message string) error {
	c := client
	if c == nil {
		c = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(message))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "text/plain")

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("ntfy notification failed: status=%d", resp.StatusCode)
	}
	return nil
}
