package backend

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/zentesthq/zentest/internal/common"
)

// subscribeSSE opens a server-sent-events stream and decodes every
// "snapshot" event into a full result set for fn. The returned cancel
// closes the stream and waits for the reader to stop, so after it returns
// fn is never invoked again.
func subscribeSSE[T any](ctx context.Context, b *RemoteBackend, url string, fn func([]T)) (CancelFunc, error) {
	ctx, cancel := context.WithCancel(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		cancel()
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")
	if b.token != "" {
		req.Header.Set(common.AccessTokenHeaderName, "Bearer "+b.token)
	}

	resp, err := b.http.Do(req)
	if err != nil {
		cancel()
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		cancel()
		if resp.StatusCode == http.StatusUnauthorized {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("subscribe %s: %s", url, resp.Status)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

		var event string
		var data []byte
		for scanner.Scan() {
			line := scanner.Text()
			switch {
			case line == "":
				if event == "snapshot" && len(data) > 0 {
					var snap []T
					if err := json.Unmarshal(data, &snap); err == nil {
						if snap == nil {
							snap = []T{}
						}
						select {
						case <-ctx.Done():
							return
						default:
						}
						fn(snap)
					}
				}
				event, data = "", nil
			case strings.HasPrefix(line, "event: "):
				event = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				data = append(data, strings.TrimPrefix(line, "data: ")...)
			}
		}
	}()

	return func() {
		cancel()
		<-done
	}, nil
}
