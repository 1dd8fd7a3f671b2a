// SPDX-License-Identifier: MIT

package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type checkedWidget struct {
	ID int `json:"id"`
}

func (w checkedWidget) Validate() error {
	if w.ID <= 0 {
		return errors.New("id must be positive")
	}
	return nil
}

func TestGetDecodesObject(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/widgets/1", r.URL.Path)
		fmt.Fprint(w, `{"id": 1, "name": "anchor"}`)
	}))
	defer ts.Close()

	got, err := Get[widget](context.Background(), New(ts.URL), "widgets/1")
	require.NoError(t, err)
	assert.Equal(t, widget{ID: 1, Name: "anchor"}, got)
}

func TestGetListDecodesArray(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"id": 1, "name": "a"}, {"id": 2, "name": "b"}]`)
	}))
	defer ts.Close()

	got, err := GetList[widget](context.Background(), New(ts.URL), "/widgets")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[1].Name)
}

func TestGetListRejectsObject(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id": 1}`)
	}))
	defer ts.Close()

	_, err := GetList[widget](context.Background(), New(ts.URL), "widgets")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBadResponse), "got %v", err)
}

func TestPostSendsJSONBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var in widget
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		in.ID = 7
		require.NoError(t, json.NewEncoder(w).Encode(in))
	}))
	defer ts.Close()

	got, err := Post[widget](context.Background(), New(ts.URL), "widgets", widget{Name: "cliff"})
	require.NoError(t, err)
	assert.Equal(t, widget{ID: 7, Name: "cliff"}, got)
}

func TestHeaderMergeRequestWins(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "req-token", r.Header.Get("Authorization"))
		assert.Equal(t, "vrachos", r.Header.Get("X-Client"))
		fmt.Fprint(w, `{}`)
	}))
	defer ts.Close()

	c := New(ts.URL,
		WithHeader("Authorization", "default-token"),
		WithHeader("X-Client", "vrachos"),
	)
	_, err := Get[widget](context.Background(), c, "widgets",
		WithRequestHeader("Authorization", "req-token"))
	require.NoError(t, err)
}

func TestQueryParams(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		fmt.Fprint(w, `[]`)
	}))
	defer ts.Close()

	got, err := GetList[widget](context.Background(), New(ts.URL), "widgets", WithQuery("limit", "5"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDeleteEmptyBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	got, err := Delete(context.Background(), New(ts.URL), "widgets/1")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"status": "deleted"}, got)
}

func TestDeleteWithBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"removed": true}`)
	}))
	defer ts.Close()

	got, err := Delete(context.Background(), New(ts.URL), "widgets/1")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"removed": true}, got)
}

func TestStatusErrorCarriesContext(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such widget", http.StatusNotFound)
	}))
	defer ts.Close()

	_, err := Get[widget](context.Background(), New(ts.URL), "widgets/404")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.Status)
	assert.Equal(t, "no such widget", se.Body)
	assert.Contains(t, se.Error(), "HTTP 404")
}

func TestServerErrorSentinel(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	_, err := Get[widget](context.Background(), New(ts.URL), "widgets")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrServerError), "got %v", err)
}

func TestTimeoutSentinel(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer ts.Close()

	c := New(ts.URL, WithTimeout(100*time.Millisecond))
	_, err := Get[widget](context.Background(), c, "slow")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTimeout), "got %v", err)
}

func TestUnavailableSentinel(t *testing.T) {
	// Nothing listens on this port.
	c := New("http://127.0.0.1:1")
	_, err := Get[widget](context.Background(), c, "widgets")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable), "got %v", err)
}

func TestDecodedValueValidation(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id": -1}`)
	}))
	defer ts.Close()

	_, err := Get[checkedWidget](context.Background(), New(ts.URL), "widgets/1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBadResponse), "got %v", err)
	assert.Contains(t, err.Error(), "id must be positive")
}

func TestBaseURLTrailingSlashTrimmed(t *testing.T) {
	c := New("http://example.test/api/")
	assert.Equal(t, "http://example.test/api", c.BaseURL())
}
