package openai

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/lexivec/lexivec/internal/domain"
)

func TestEmbed_EmptyTextFailsBeforeNetwork(t *testing.T) {
	// No client is wired; an empty input must be rejected before any call.
	e := &Embedder{dimensions: 4}
	_, err := e.Embed(context.Background(), "")
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestParseAPIError_RateLimit(t *testing.T) {
	err := parseAPIError(context.Background(), &goopenai.APIError{
		HTTPStatusCode: http.StatusTooManyRequests,
		Message:        "rate limit reached",
	})
	if !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("err = %v, want ErrRateLimited", err)
	}
}

func TestParseAPIError_RequestErrorDetail(t *testing.T) {
	err := parseAPIError(context.Background(), &goopenai.RequestError{
		HTTPStatusCode: http.StatusServiceUnavailable,
		Body:           []byte(`{"detail":"model overloaded"}`),
		Err:            errors.New("503"),
	})
	if !errors.Is(err, domain.ErrProviderUnavailable) {
		t.Fatalf("err = %v, want ErrProviderUnavailable", err)
	}
	if !strings.Contains(err.Error(), "model overloaded") {
		t.Errorf("err = %v, want detail surfaced", err)
	}
}

func TestParseAPIError_Deadline(t *testing.T) {
	err := parseAPIError(context.Background(), context.DeadlineExceeded)
	if !errors.Is(err, domain.ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
}

func TestParseAPIError_ExpiredContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 0)
	defer cancel()
	<-ctx.Done()

	err := parseAPIError(ctx, errors.New("connection reset"))
	if !errors.Is(err, domain.ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
}

func TestExtractDetail(t *testing.T) {
	if got := extractDetail([]byte(`{"detail":"bad model"}`)); got != "bad model" {
		t.Errorf("detail = %q", got)
	}
	if got := extractDetail([]byte(`not json`)); got != "" {
		t.Errorf("detail = %q, want empty on garbage", got)
	}
	if got := extractDetail(nil); got != "" {
		t.Errorf("detail = %q, want empty on nil", got)
	}
}
