package tenant

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestNewContext(t *testing.T) {
	orgID := uuid.Must(uuid.NewV7()).String()
	userID := uuid.Must(uuid.NewV7()).String()

	tests := []struct {
		name    string
		orgID   string
		userID  string
		wantErr bool
	}{
		{
			name:   "org and user",
			orgID:  orgID,
			userID: userID,
		},
		{
			name:  "org only, system actor",
			orgID: orgID,
		},
		{
			name:    "empty org ID",
			orgID:   "",
			userID:  userID,
			wantErr: true,
		},
		{
			name:    "malformed org ID",
			orgID:   "not-a-uuid",
			wantErr: true,
		},
		{
			name:    "nil org ID",
			orgID:   uuid.Nil.String(),
			wantErr: true,
		},
		{
			name:    "malformed user ID",
			orgID:   orgID,
			userID:  "not-a-uuid",
			wantErr: true,
		},
		{
			name:    "truncated org ID",
			orgID:   orgID[:12],
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc, err := NewContext(tt.orgID, tt.userID)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidContext)
				require.False(t, tc.Valid())
				return
			}
			require.NoError(t, err)
			require.True(t, tc.Valid())
			require.Equal(t, tt.orgID, tc.OrgID().String())
			if tt.userID == "" {
				require.False(t, tc.HasUser())
				require.Equal(t, uuid.Nil, tc.UserID())
			} else {
				require.True(t, tc.HasUser())
				require.Equal(t, tt.userID, tc.UserID().String())
			}
		})
	}
}

func TestMustContext_PanicsOnInvalid(t *testing.T) {
	require.Panics(t, func() {
		MustContext("garbage", "")
	})
}

func TestZeroContextIsInvalid(t *testing.T) {
	var tc Context
	require.False(t, tc.Valid())
}

func TestContextRoundTrip(t *testing.T) {
	tc := MustContext(uuid.Must(uuid.NewV7()).String(), uuid.Must(uuid.NewV7()).String())

	ctx := WithContext(context.Background(), tc)
	got, ok := FromContext(ctx)
	require.True(t, ok)
	require.Equal(t, tc, got)
}

func TestFromContext_Missing(t *testing.T) {
	_, ok := FromContext(context.Background())
	require.False(t, ok)
}

func TestFromContext_ZeroValueAttached(t *testing.T) {
	// A zero Context smuggled in via WithContext must not be treated as
	// a usable tenant identity.
	ctx := WithContext(context.Background(), Context{})
	_, ok := FromContext(ctx)
	require.False(t, ok)
}

func TestString_SystemActor(t *testing.T) {
	orgID := uuid.Must(uuid.NewV7())
	tc := MustContext(orgID.String(), "")
	require.Equal(t, "org="+orgID.String()+" user=system", tc.String())
}
