package storage

import (
	"SaveByte/domain"
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockObjectAPI struct {
	mock.Mock
}

func (m *MockObjectAPI) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	return &s3.PutObjectOutput{}, args.Error(0)
}

func (m *MockObjectAPI) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	args := m.Called(ctx, params)
	return &s3.DeleteObjectOutput{}, args.Error(0)
}

// fileHeader builds a multipart.FileHeader the same way a Fiber handler
// receives one.
func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="`+name+`"`)
	h.Set("Content-Type", "image/png")
	part, err := writer.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(&body, writer.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	return form.File["image"][0]
}

func TestAwsS3_UploadFile(t *testing.T) {
	client := new(MockObjectAPI)
	store := NewAwsS3WithClient(client, "savebyte-media", "ap-south-1")

	client.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		data, _ := io.ReadAll(in.Body)
		return aws.ToString(in.Key) == "foods/food-1.png" &&
			aws.ToString(in.Bucket) == "savebyte-media" &&
			string(data) == "png-bytes"
	})).Return(nil)

	key, err := store.UploadFile(context.Background(), "food-1", fileHeader(t, "Photo.PNG", []byte("png-bytes")), "foods", AllowImage...)
	require.NoError(t, err)
	assert.Equal(t, "foods/food-1.png", key)

	link := store.GetPublicLinkKey(key)
	assert.Equal(t, "https://savebyte-media.s3.ap-south-1.amazonaws.com/foods/food-1.png", link)
	assert.Equal(t, key, store.GetObjectKeyFromLink(link))
	client.AssertExpectations(t)
}

func TestAwsS3_RejectsExtension(t *testing.T) {
	client := new(MockObjectAPI)
	store := NewAwsS3WithClient(client, "savebyte-media", "ap-south-1")

	_, err := store.UploadFile(context.Background(), "food-1", fileHeader(t, "notes.txt", []byte("x")), "foods", AllowImage...)
	assert.ErrorIs(t, err, domain.ErrInvalidImageFormat)
	client.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything)
}

func TestAwsS3_Disabled(t *testing.T) {
	store, err := NewAwsS3(context.Background(), S3Config{})
	require.NoError(t, err)
	assert.False(t, store.Enabled())

	_, err = store.UploadFile(context.Background(), "food-1", fileHeader(t, "a.png", []byte("x")), "foods")
	assert.ErrorIs(t, err, domain.ErrStorageDisabled)
}
