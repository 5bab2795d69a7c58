package domain_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/aretw0/newsmeme/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeResponse_Shapes(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		variant domain.Variant
		check   func(t *testing.T, resp domain.ActionResponse)
	}{
		{
			name:    "redirect",
			body:    `{"success": true, "redirect_url": "/"}`,
			variant: domain.VariantRedirect,
			check: func(t *testing.T, resp domain.ActionResponse) {
				assert.Equal(t, "/", resp.RedirectURL)
			},
		},
		{
			name:    "reload",
			body:    `{"success": true, "reload": true}`,
			variant: domain.VariantReload,
		},
		{
			name:    "post vote",
			body:    `{"success": true, "post_id": 42, "score": 17}`,
			variant: domain.VariantPayload,
			check: func(t *testing.T, resp domain.ActionResponse) {
				assert.Equal(t, int64(42), resp.PostID)
				require.NotNil(t, resp.Score)
				assert.Equal(t, "17", resp.Score.String())
			},
		},
		{
			name:    "comment vote with negative score",
			body:    `{"success": true, "comment_id": 9, "score": -2}`,
			variant: domain.VariantPayload,
			check: func(t *testing.T, resp domain.ActionResponse) {
				assert.Equal(t, int64(9), resp.CommentID)
				require.NotNil(t, resp.Score)
				assert.Equal(t, "-2", resp.Score.String())
			},
		},
		{
			name:    "comment delete",
			body:    `{"success": true, "comment_id": 9}`,
			variant: domain.VariantPayload,
			check: func(t *testing.T, resp domain.ActionResponse) {
				assert.Equal(t, int64(9), resp.CommentID)
				assert.Nil(t, resp.Score)
			},
		},
		{
			name:    "failure",
			body:    `{"success": false, "error": "Not authorized"}`,
			variant: domain.VariantError,
			check: func(t *testing.T, resp domain.ActionResponse) {
				assert.Equal(t, "Not authorized", resp.Error)
			},
		},
		{
			name:    "error without success key",
			body:    `{"error": "Sorry, page not found"}`,
			variant: domain.VariantError,
			check: func(t *testing.T, resp domain.ActionResponse) {
				assert.False(t, resp.Success)
				assert.Equal(t, "Sorry, page not found", resp.Error)
			},
		},
		{
			name:    "string ids",
			body:    `{"success": true, "post_id": "42", "score": "5"}`,
			variant: domain.VariantPayload,
			check: func(t *testing.T, resp domain.ActionResponse) {
				assert.Equal(t, int64(42), resp.PostID)
				require.NotNil(t, resp.Score)
				assert.Equal(t, "5", resp.Score.String())
			},
		},
		{
			name:    "integral float id",
			body:    `{"success": true, "comment_id": 9.0, "score": 1e2}`,
			variant: domain.VariantPayload,
			check: func(t *testing.T, resp domain.ActionResponse) {
				assert.Equal(t, int64(9), resp.CommentID)
				require.NotNil(t, resp.Score)
				assert.Equal(t, "1e2", resp.Score.String())
				assert.Empty(t, resp.Skipped)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := domain.DecodeResponse(strings.NewReader(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.variant, domain.Classify(resp))
			if tt.check != nil {
				tt.check(t, resp)
			}
		})
	}
}

func TestDecodeResponse_KeepsExtraFields(t *testing.T) {
	resp, err := domain.ParseResponse([]byte(`{"success": true, "post_id": 1, "score": 2, "karma": 30}`))
	require.NoError(t, err)

	assert.Equal(t, json.Number("30"), resp.Fields["karma"])
	assert.Equal(t, true, resp.Fields["success"])
}

func TestDecodeResponse_Malformed(t *testing.T) {
	bodies := []string{
		``,
		`<html>Internal Server Error</html>`,
		`null`,
		`[1, 2]`,
		`"ok"`,
		`{"success": true`,
	}

	for _, body := range bodies {
		_, err := domain.ParseResponse([]byte(body))
		assert.ErrorIs(t, err, domain.ErrMalformedEnvelope, "body %q", body)
	}
}

func TestDecodeResponse_PayloadOfUnexpectedType(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    domain.Effect
		skipped []string
		check   func(t *testing.T, resp domain.ActionResponse)
	}{
		{
			name: "fractional score",
			body: `{"success":true,"post_id":42,"score":17.5}`,
			want: domain.Effect{Kind: domain.EffectCallback},
			check: func(t *testing.T, resp domain.ActionResponse) {
				assert.Equal(t, int64(42), resp.PostID)
				require.NotNil(t, resp.Score)
				assert.Equal(t, "17.5", resp.Score.String())
			},
		},
		{
			name:    "redirect with text id",
			body:    `{"success":true,"redirect_url":"/login","post_id":"n/a"}`,
			want:    domain.Navigate("/login"),
			skipped: []string{"post_id"},
		},
		{
			name: "reload with float id",
			body: `{"success":true,"reload":true,"comment_id":9.0}`,
			want: domain.Reload(),
		},
		{
			name:    "failure with text score",
			body:    `{"success":false,"error":"Not authorized","score":"-"}`,
			want:    domain.ShowError("Not authorized"),
			skipped: []string{"score"},
			check: func(t *testing.T, resp domain.ActionResponse) {
				assert.Nil(t, resp.Score)
				assert.Equal(t, "-", resp.Fields["score"])
			},
		},
		{
			name:    "failure with object error and list ids",
			body:    `{"success":false,"error":{"code":1},"post_id":[1],"comment_id":1.5}`,
			want:    domain.ShowError(""),
			skipped: []string{"comment_id", "error", "post_id"},
		},
		{
			name: "numeric flags",
			body: `{"success":1,"reload":"true"}`,
			want: domain.Reload(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := domain.ParseResponse([]byte(tt.body))
			require.NoError(t, err)

			want := tt.want
			if want.Kind == domain.EffectCallback {
				want = domain.InvokeCallback(resp)
			}
			assert.Equal(t, want, domain.Resolve(resp, true))
			assert.Equal(t, tt.skipped, resp.Skipped)
			if tt.check != nil {
				tt.check(t, resp)
			}
		})
	}
}
