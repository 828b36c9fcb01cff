package apiclient

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// loggingRoundTripper logs every outbound backend call with its status and
// duration.
type loggingRoundTripper struct {
	inner http.RoundTripper
	log   logrus.FieldLogger
}

func (l *loggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	resp, err := l.inner.RoundTrip(req)
	fields := logrus.Fields{
		"method":   req.Method,
		"url":      req.URL.String(),
		"duration": time.Since(start).String(),
	}
	if err != nil {
		fields["error"] = err.Error()
		l.log.WithFields(fields).Warn("backend request failed")
		return nil, err
	}

	fields["status"] = resp.StatusCode
	if resp.StatusCode >= 400 {
		l.log.WithFields(fields).Info("backend request returned error status")
	} else {
		l.log.WithFields(fields).Debug("backend request success")
	}
	return resp, nil
}

// NewHTTPClient wraps inner (http.DefaultTransport when nil) with request
// logging. No timeout is set: backend calls run until the transport resolves
// or the caller's context is cancelled.
func NewHTTPClient(inner http.RoundTripper, log logrus.FieldLogger) *http.Client {
	if inner == nil {
		inner = http.DefaultTransport
	}
	return &http.Client{
		Transport: &loggingRoundTripper{inner: inner, log: log},
	}
}

// authRoundTripper attaches the signed-in user's access token. Requests go
// out without it while signed out.
type authRoundTripper struct {
	inner http.RoundTripper
	token func() string
}

func (a *authRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if tok := a.token(); tok != "" {
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	return a.inner.RoundTrip(req)
}

func withBearer(token func() string) func(http.RoundTripper) http.RoundTripper {
	return func(next http.RoundTripper) http.RoundTripper {
		return &authRoundTripper{inner: next, token: token}
	}
}

// chain wraps final so that layers[0] runs first.
func chain(final http.RoundTripper, layers ...func(http.RoundTripper) http.RoundTripper) http.RoundTripper {
	if final == nil {
		final = http.DefaultTransport
	}
	for i := len(layers) - 1; i >= 0; i-- {
		final = layers[i](final)
	}
	return final
}
