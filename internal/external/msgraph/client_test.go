package msgraph

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testDrive(t *testing.T, handler http.HandlerFunc) *DriveClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewDriveClient(Config{
		TenantID:     "tenant",
		ClientID:     "client",
		ClientSecret: "secret",
		SiteID:       "site-1",
		Folder:       "Quotes",
		TokenURL:     srv.URL + "/token",
		GraphBaseURL: srv.URL,
		Timeout:      5 * time.Second,
	}, zap.NewNop())
}

func TestDriveClient_AuthorizeAndUpload(t *testing.T) {
	var uploadAuth, uploadPath string
	var uploadBody []byte

	drive := testDrive(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/token":
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, `{"access_token":"tok-1","token_type":"Bearer","expires_in":3600}`)
		default:
			uploadAuth = r.Header.Get("Authorization")
			uploadPath = r.URL.Path
			uploadBody, _ = io.ReadAll(r.Body)
			w.WriteHeader(http.StatusCreated)
		}
	})

	ctx := context.Background()
	require.NoError(t, drive.Authorize(ctx))
	require.NoError(t, drive.Upload(ctx, "Acme_Q-1.pdf", []byte("%PDF-")))

	assert.Equal(t, "Bearer tok-1", uploadAuth)
	assert.Equal(t, "/v1.0/sites/site-1/drive/root:/Quotes/Acme_Q-1.pdf:/content", uploadPath)
	assert.Equal(t, []byte("%PDF-"), uploadBody)
}

func TestDriveClient_UploadRequiresAuthorize(t *testing.T) {
	drive := testDrive(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	err := drive.Upload(context.Background(), "a.pdf", []byte("x"))
	assert.ErrorIs(t, err, ErrNotAuthorized)
}

func TestDriveClient_NonCreatedStatusIsFailure(t *testing.T) {
	drive := testDrive(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/token" {
			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, `{"access_token":"tok-1","token_type":"Bearer"}`)
			return
		}
		// 200 on replace is not the created signal the pipeline expects
		w.WriteHeader(http.StatusOK)
	})

	ctx := context.Background()
	require.NoError(t, drive.Authorize(ctx))
	err := drive.Upload(ctx, "a.pdf", []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 200")
}

// One client is shared across concurrent webhook requests; overlapping
// Authorize/Upload pairs must be safe under the race detector.
func TestDriveClient_ConcurrentAuthorizeAndUpload(t *testing.T) {
	drive := testDrive(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/token" {
			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, `{"access_token":"tok-1","token_type":"Bearer","expires_in":3600}`)
			return
		}
		w.WriteHeader(http.StatusCreated)
	})

	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			assert.NoError(t, drive.Authorize(ctx))
			assert.NoError(t, drive.Upload(ctx, fmt.Sprintf("quote-%d.pdf", n), []byte("%PDF-")))
		}(i)
	}
	wg.Wait()
}

func TestDriveClient_AuthorizeFailure(t *testing.T) {
	drive := testDrive(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_client"}`, http.StatusUnauthorized)
	})

	err := drive.Authorize(context.Background())
	require.Error(t, err)
}
