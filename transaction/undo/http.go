package undo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-http-utils/headers"
	"github.com/go-logr/logr"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/oauth2"

	"github.com/txkit-go/txkit/commonerrors"
	"github.com/txkit-go/txkit/reflection"
	"github.com/txkit-go/txkit/transaction/workflow"
)

const compensationContentType = "application/json"

// compensationRequest is the document POSTed to the compensation endpoint. The
// undo payload travels base64 encoded so non JSON payloads survive the envelope.
type compensationRequest struct {
	WorkflowID   string                 `json:"workflow_id"`
	Sequence     uint64                 `json:"sequence"`
	Kind         workflow.OperationKind `json:"kind"`
	ResourceKind string                 `json:"resource_kind"`
	ResourceID   string                 `json:"resource_id"`
	UndoPayload  []byte                 `json:"undo_payload,omitempty"`
}

// HTTPCompensator reverts external calls by POSTing the recorded operation to a
// compensation endpoint. Transport failures and 5xx answers retry with backoff
// inside the client; what comes back is mapped onto the error categories the undo
// engine's retry policy understands. A 404 or 410 counts as success: the resource
// the call would revert is already gone.
type HTTPCompensator struct {
	logger   logr.Logger
	client   *retryablehttp.Client
	endpoint string
}

var _ IInverseCaller = (*HTTPCompensator)(nil)

type httpCompensatorSettings struct {
	client       *http.Client
	tokenSource  oauth2.TokenSource
	retryMax     int
	retryWaitMin time.Duration
	retryWaitMax time.Duration
}

// HTTPOption tweaks the compensator's client.
type HTTPOption func(*httpCompensatorSettings)

// WithOAuth authenticates compensation calls with tokens from source.
func WithOAuth(source oauth2.TokenSource) HTTPOption {
	return func(s *httpCompensatorSettings) {
		s.tokenSource = source
	}
}

// WithStaticToken authenticates compensation calls with a fixed bearer token.
func WithStaticToken(token string) HTTPOption {
	return WithOAuth(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
}

// WithHTTPClient overrides the base client, e.g. to trust a private certificate
// authority.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(s *httpCompensatorSettings) {
		if client == nil {
			return
		}
		s.client = client
	}
}

// WithTransportRetries tunes the retry envelope inside the client; maxRetries
// zero sends every request exactly once.
func WithTransportRetries(maxRetries int, waitMin, waitMax time.Duration) HTTPOption {
	return func(s *httpCompensatorSettings) {
		if maxRetries >= 0 {
			s.retryMax = maxRetries
		}
		if waitMin > 0 {
			s.retryWaitMin = waitMin
		}
		if waitMax > 0 {
			s.retryWaitMax = waitMax
		}
	}
}

// NewHTTPCompensator returns a compensator POSTing to endpoint.
func NewHTTPCompensator(logger logr.Logger, endpoint string, options ...HTTPOption) (*HTTPCompensator, error) {
	if reflection.IsEmpty(endpoint) {
		return nil, commonerrors.UndefinedVariable("compensation endpoint")
	}
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return nil, commonerrors.WrapError(commonerrors.ErrInvalid, err, "invalid compensation endpoint")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, commonerrors.Newf(commonerrors.ErrInvalid, "the compensation endpoint [%v] must be an http or https URL", endpoint)
	}
	settings := &httpCompensatorSettings{
		client:       cleanhttp.DefaultPooledClient(),
		retryMax:     4,
		retryWaitMin: time.Second,
		retryWaitMax: 30 * time.Second,
	}
	for i := range options {
		if options[i] != nil {
			options[i](settings)
		}
	}
	base := settings.client
	if settings.tokenSource != nil {
		oauthClientCtx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
		base = oauth2.NewClient(oauthClientCtx, settings.tokenSource)
	}
	return &HTTPCompensator{
		logger: logger,
		client: &retryablehttp.Client{
			HTTPClient:   base,
			Logger:       newLeveledLogger(logger),
			RetryWaitMin: settings.retryWaitMin,
			RetryWaitMax: settings.retryWaitMax,
			RetryMax:     settings.retryMax,
			CheckRetry:   retryablehttp.DefaultRetryPolicy,
			Backoff:      retryablehttp.DefaultBackoff,
		},
		endpoint: endpoint,
	}, nil
}

// CallInverse POSTs the operation to the compensation endpoint.
func (c *HTTPCompensator) CallInverse(ctx context.Context, operation *workflow.Operation) error {
	err := checkUndoArguments(ctx, operation)
	if err != nil {
		return err
	}
	body, err := json.Marshal(compensationRequest{
		WorkflowID:   operation.WorkflowID,
		Sequence:     operation.Sequence,
		Kind:         operation.Kind,
		ResourceKind: operation.ResourceKind,
		ResourceID:   operation.ResourceID,
		UndoPayload:  operation.UndoData,
	})
	if err != nil {
		return commonerrors.WrapError(commonerrors.ErrMarshalling, err, "could not encode the compensation request")
	}
	request, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return commonerrors.WrapError(commonerrors.ErrInvalid, err, "could not build the compensation request")
	}
	request.Header.Set(headers.ContentType, compensationContentType)
	request.Header.Set(headers.Accept, compensationContentType)
	response, err := c.client.Do(request)
	if err != nil {
		return commonerrors.WrapIfNotCommonErrorf(commonerrors.ErrUnavailable, commonerrors.ConvertContextError(err), "the compensation call for operation [%v/%v] did not go through", operation.WorkflowID, operation.Sequence)
	}
	defer func() { _ = response.Body.Close() }()
	return c.interpret(response, operation)
}

func (c *HTTPCompensator) interpret(response *http.Response, operation *workflow.Operation) error {
	code := response.StatusCode
	switch {
	case code >= http.StatusOK && code < http.StatusMultipleChoices:
		return nil
	case code == http.StatusNotFound, code == http.StatusGone:
		c.logger.Info("nothing left to compensate", "workflow", operation.WorkflowID, "sequence", operation.Sequence, "status", code)
		return nil
	case code == http.StatusRequestTimeout:
		return commonerrors.Newf(commonerrors.ErrTimeout, "the compensation endpoint timed out on operation [%v/%v]", operation.WorkflowID, operation.Sequence)
	case code == http.StatusConflict:
		return commonerrors.Newf(commonerrors.ErrConflict, "the compensation endpoint rejected operation [%v/%v] as conflicting", operation.WorkflowID, operation.Sequence)
	case code >= http.StatusInternalServerError:
		// Only the 5xx codes the client does not retry, such as 501, land here;
		// the retried ones exhaust inside the client and come back as transport
		// errors.
		return commonerrors.Newf(commonerrors.ErrUnavailable, "the compensation endpoint answered [%v] for operation [%v/%v]", response.Status, operation.WorkflowID, operation.Sequence)
	default:
		return commonerrors.Newf(commonerrors.ErrInvalid, "the compensation endpoint answered [%v] for operation [%v/%v]", response.Status, operation.WorkflowID, operation.Sequence)
	}
}

type leveledLogger struct {
	logger logr.Logger
}

func (l *leveledLogger) Error(msg string, keysAndValues ...any) {
	l.logger.Error(commonerrors.ErrUnexpected, msg, keysAndValues...)
}

func (l *leveledLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Info(msg, keysAndValues...)
}

func (l *leveledLogger) Debug(msg string, keysAndValues ...any) {
	l.logger.V(1).Info(msg, keysAndValues...)
}

func (l *leveledLogger) Warn(msg string, keysAndValues ...any) {
	l.logger.V(0).Info(fmt.Sprintf("WARNING: %v", msg), keysAndValues...)
}

func newLeveledLogger(logger logr.Logger) retryablehttp.LeveledLogger {
	if logger.IsZero() {
		return nil
	}
	return &leveledLogger{logger: logger}
}
