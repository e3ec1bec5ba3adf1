package auth

import (
	"context"
	"errors"
	"testing"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClient struct {
	tok *fbauth.Token
	err error
}

func (s stubClient) VerifyIDToken(context.Context, string) (*fbauth.Token, error) {
	return s.tok, s.err
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{"Bearer abc", "abc", false},
		{"bearer   abc ", "abc", false},
		{"", "", true},
		{"Bearer", "", true},
		{"Bearer  ", "", true},
		{"Basic abc", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, err := BearerToken(tt.header)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMissingToken)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFirebaseVerifier_Verify(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		v := &FirebaseVerifier{client: stubClient{tok: &fbauth.Token{
			UID:    "uid-1",
			Claims: map[string]interface{}{"email": "a@b.c"},
		}}}

		tok, err := v.Verify(ctx, "x")

		require.NoError(t, err)
		assert.Equal(t, "uid-1", tok.UID)
		assert.Equal(t, "a@b.c", tok.Email)
	})

	t.Run("no email claim", func(t *testing.T) {
		v := &FirebaseVerifier{client: stubClient{tok: &fbauth.Token{UID: "uid-2"}}}

		tok, err := v.Verify(ctx, "x")

		require.NoError(t, err)
		assert.Empty(t, tok.Email)
	})

	t.Run("invalid", func(t *testing.T) {
		v := &FirebaseVerifier{client: stubClient{err: errors.New("bad signature")}}

		tok, err := v.Verify(ctx, "x")

		assert.ErrorIs(t, err, ErrTokenInvalid)
		assert.Contains(t, err.Error(), "bad signature")
		assert.Nil(t, tok)
	})
}
