// Package testutil provides test data generators.
package testutil

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// TestDataGenerator provides methods for generating test data.
type TestDataGenerator struct {
	rand *rand.Rand
}

// NewTestDataGenerator creates a new test data generator with a seeded random source.
func NewTestDataGenerator(seed int64) *TestDataGenerator {
	return &TestDataGenerator{
		rand: rand.New(rand.NewSource(seed)),
	}
}

// GenerateObjectList generates a list of test S3 objects.
func (g *TestDataGenerator) GenerateObjectList(count int, prefix string) []types.Object {
	objects := make([]types.Object, count)
	baseTime := time.Now().Add(-24 * time.Hour)

	for i := 0; i < count; i++ {
		key := fmt.Sprintf("%sobject-%04d.txt", prefix, i)
		size := int64(g.rand.Intn(1000000) + 1000) // 1KB to 1MB
		modified := baseTime.Add(time.Duration(i) * time.Minute)
		objects[i] = CreateTestObject(key, size, modified)
	}

	return objects
}

// GenerateFolderMarker generates a zero-byte object whose key ends with a
// slash, the shape console-created folders take.
func (g *TestDataGenerator) GenerateFolderMarker(prefix string) types.Object {
	return CreateTestObject(prefix, 0, time.Now().Add(-time.Hour))
}

// GenerateKeyList generates sequential object keys under a prefix.
// This is useful for exercising batch chunking with large inputs.
func (g *TestDataGenerator) GenerateKeyList(count int, prefix string) []string {
	keys := make([]string, count)
	for i := 0; i < count; i++ {
		keys[i] = fmt.Sprintf("%sobject-%05d.bin", prefix, i)
	}
	return keys
}

// GenerateCommonPrefixes generates common prefixes for directory-like structures.
func (g *TestDataGenerator) GenerateCommonPrefixes(count int, base string) []types.CommonPrefix {
	prefixes := make([]types.CommonPrefix, count)

	for i := 0; i < count; i++ {
		prefixes[i] = types.CommonPrefix{
			Prefix: StringPtr(fmt.Sprintf("%sdir%02d/", base, i)),
		}
	}

	return prefixes
}

// GeneratePartList generates acknowledged parts for a multipart session,
// numbered sequentially from firstNumber.
func (g *TestDataGenerator) GeneratePartList(count int, firstNumber int32) []types.Part {
	parts := make([]types.Part, count)

	for i := 0; i < count; i++ {
		parts[i] = types.Part{
			PartNumber:   Int32Ptr(firstNumber + int32(i)),
			ETag:         StringPtr(fmt.Sprintf(`"%x"`, g.rand.Int63())),
			Size:         Int64Ptr(int64(g.rand.Intn(4*1024*1024) + 5*1024*1024)),
			LastModified: TimePtr(time.Now()),
		}
	}

	return parts
}

// GenerateCopyObjectResult generates a test copy object result.
func (g *TestDataGenerator) GenerateCopyObjectResult() *types.CopyObjectResult {
	return &types.CopyObjectResult{
		ETag:         StringPtr(fmt.Sprintf(`"%x"`, g.rand.Int63())),
		LastModified: TimePtr(time.Now()),
	}
}

// GenerateObjectMetadata generates test object metadata.
func (g *TestDataGenerator) GenerateObjectMetadata(size int64) map[string]string {
	return map[string]string{
		"test-key-1": fmt.Sprintf("test-value-%d", g.rand.Intn(100)),
		"test-key-2": fmt.Sprintf("test-value-%d", g.rand.Intn(100)),
		"size":       fmt.Sprintf("%d", size),
	}
}
