package session

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeUser_UserWrapped(t *testing.T) {
	u, err := DecodeUser([]byte(`{"user":{"id":7,"username":"ada"}}`))
	require.NoError(t, err)
	require.EqualValues(t, 7, u.ID)
	require.Equal(t, "ada", u.Username)
}

func TestDecodeUser_DataWrapped(t *testing.T) {
	u, err := DecodeUser([]byte(`{"data":{"id":3,"username":"grace","app_name":"X"}}`))
	require.NoError(t, err)
	require.EqualValues(t, 3, u.ID)
	require.Equal(t, "X", u.Provider)
}

func TestDecodeUser_BarePayload(t *testing.T) {
	u, err := DecodeUser([]byte(`{"id":12,"username":"linus","isPrivate":true}`))
	require.NoError(t, err)
	require.EqualValues(t, 12, u.ID)
	require.True(t, u.Private)
}

func TestDecodeUser_UserShapeWinsOverData(t *testing.T) {
	u, err := DecodeUser([]byte(`{"user":{"id":1,"username":"a"},"data":{"id":2,"username":"b"}}`))
	require.NoError(t, err)
	require.EqualValues(t, 1, u.ID)
}

func TestDecodeUser_MissingIdentityField(t *testing.T) {
	for _, body := range []string{
		`{}`,
		`{"user":{}}`,
		`{"data":{"username":"no-id"}}`,
		`{"username":"bare-no-id"}`,
		`{"user":null,"data":null}`,
		`[]`,
		`not json at all`,
	} {
		_, err := DecodeUser([]byte(body))
		require.ErrorIs(t, err, ErrUnrecognizedResponse, "body: %s", body)
	}
}
