package sdk

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/chainreactors/intruder/core/payload"
	"github.com/chainreactors/intruder/core/template"
	"github.com/chainreactors/intruder/pkg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLoginServer(t *testing.T) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if strings.Contains(string(body), "pass=letmein") {
			w.WriteHeader(http.StatusFound)
			_, _ = w.Write([]byte("welcome"))
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("denied"))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func loginTemplate(srv *httptest.Server) *template.Template {
	return &template.Template{
		Method:  "POST",
		URL:     srv.URL + "/login",
		Headers: "Host: " + strings.TrimPrefix(srv.URL, "http://") + "\nContent-Type: application/x-www-form-urlencoded",
		Body:    "user=#admin#&pass=#secret#",
	}
}

func TestAttack(t *testing.T) {
	srv := newLoginServer(t)
	engine := NewIntruderEngine(nil)
	engine.Option.Match = "current.StatusCode == 302"

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	results, err := engine.Attack(ctx, loginTemplate(srv), payload.List([]string{"guess", "letmein"}))
	require.NoError(t, err)
	require.Len(t, results, 4)

	for i, r := range results {
		assert.Equal(t, i+1, r.SequenceID)
	}
	// sniper: position 0 first, then position 1
	assert.Equal(t, 0, results[0].Position)
	assert.Equal(t, 1, results[3].Position)
	assert.Contains(t, results[0].FullRequestText, "user=guess&pass=secret")

	var valid []int
	for _, r := range results {
		if r.IsValid {
			valid = append(valid, r.SequenceID)
		}
	}
	assert.Equal(t, []int{4}, valid)
	assert.Equal(t, 302, results[3].StatusCode)
	assert.Equal(t, len("welcome"), results[3].BodyLength)
}

func TestAttackBatteringRam(t *testing.T) {
	srv := newLoginServer(t)
	engine := NewIntruderEngine(nil)
	require.NoError(t, engine.SetMode("battering-ram"))
	assert.Error(t, engine.SetMode("pitchfork"))

	results, err := engine.Attack(context.Background(), loginTemplate(srv), payload.List([]string{"a", "b", "c"}))
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, -1, results[1].Position)
	assert.Contains(t, results[1].FullRequestText, "user=b&pass=b")
}

func TestAttackStreamThreads(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte(r.URL.Query().Get("id")))
	}))
	defer srv.Close()

	engine := NewIntruderEngine(nil)
	engine.SetThreads(5)
	engine.SetTimeout(5)

	tmpl := &template.Template{Method: "GET", URL: srv.URL + "/?id=#1#"}
	set := payload.Numeric(payload.NumericRange{From: 1, To: 20, Step: 1, Base: payload.Decimal}, nil)

	ch, err := engine.AttackStream(context.Background(), tmpl, set)
	require.NoError(t, err)

	seen := make(map[int]bool)
	for r := range ch {
		assert.Equal(t, 200, r.StatusCode)
		assert.Equal(t, len(r.Payload), r.BodyLength)
		seen[r.SequenceID] = true
	}
	assert.Len(t, seen, 20)
	assert.EqualValues(t, 20, atomic.LoadInt32(&hits))
}

func TestAttackValidation(t *testing.T) {
	engine := NewIntruderEngine(nil)

	_, err := engine.AttackStream(context.Background(), nil, payload.List([]string{"a"}))
	assert.Error(t, err)

	tmpl := &template.Template{Method: "GET", URL: "http://127.0.0.1/?id=#1#"}
	_, err = engine.AttackStream(context.Background(), tmpl, payload.List([]string{"", "  "}))
	assert.ErrorIs(t, err, pkg.ErrNoPayloads)

	plain := &template.Template{Method: "GET", URL: "http://127.0.0.1/"}
	_, err = engine.AttackStream(context.Background(), plain, payload.List([]string{"a"}))
	assert.ErrorIs(t, err, pkg.ErrNoPositions)
}

func TestAttackInvalidExpression(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()
	tmpl := &template.Template{Method: "GET", URL: srv.URL + "/?id=#1#"}

	engine := NewIntruderEngine(nil)
	engine.Option.Match = "current.StatusCode =="
	_, err := engine.Attack(context.Background(), tmpl, payload.List([]string{"a"}))
	assert.Error(t, err)

	engine = NewIntruderEngine(nil)
	engine.Option.Filter = "(current.BodyLength > 1"
	_, err = engine.AttackStream(context.Background(), tmpl, payload.List([]string{"a"}))
	assert.Error(t, err)
	assert.Zero(t, atomic.LoadInt32(&hits))
}

func TestAttackCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	engine := NewIntruderEngine(nil)
	engine.SetDelay(200)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	tmpl := &template.Template{Method: "GET", URL: srv.URL + "/?q=#x#"}
	ch, err := engine.AttackStream(ctx, tmpl, payload.List([]string{"1", "2", "3", "4", "5", "6"}))
	require.NoError(t, err)

	var count int
	for range ch {
		count++
		if count == 1 {
			cancel()
		}
	}
	assert.Less(t, count, 6)
}

func TestParseRequest(t *testing.T) {
	tmpl, err := ParseRequest("GET /?id=#1# HTTP/1.1\r\nHost: example.com\r\n\r\n", "https")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/?id=#1#", tmpl.URL)
}
