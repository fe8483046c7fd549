package importer

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGetter struct {
	bucket, key string
	body        string
	err         error
}

func (f *fakeGetter) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.bucket = aws.ToString(in.Bucket)
	f.key = aws.ToString(in.Key)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(f.body))}, nil
}

func TestFetchObject(t *testing.T) {
	g := &fakeGetter{body: "id,name,image,price,qty\n"}

	data, err := FetchObject(context.Background(), g, "uploads", "incoming/new+products%282%29.csv")
	require.NoError(t, err)
	assert.Equal(t, "id,name,image,price,qty\n", string(data))
	assert.Equal(t, "uploads", g.bucket)
	assert.Equal(t, "incoming/new products(2).csv", g.key)
}

func TestFetchObject_Errors(t *testing.T) {
	_, err := FetchObject(context.Background(), &fakeGetter{}, "b", "%zz")
	assert.Error(t, err)

	_, err = FetchObject(context.Background(), &fakeGetter{err: errors.New("access denied")}, "b", "k.csv")
	assert.ErrorContains(t, err, "access denied")
}
