package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HwayGuo/keras-cnn/internal/backend/cpu"
	"github.com/HwayGuo/keras-cnn/internal/tensor"
)

// writeBatchFile creates a CIFAR-10 batch file with the given labels;
// each record's pixels are filled with the value at its index in pixels.
func writeBatchFile(t *testing.T, path string, labels []byte, pixels []byte) {
	t.Helper()
	buf := make([]byte, 0, len(labels)*(1+ImageSize))
	for i, label := range labels {
		buf = append(buf, label)
		for j := 0; j < ImageSize; j++ {
			buf = append(buf, pixels[i])
		}
	}
	require.NoError(t, os.WriteFile(path, buf, 0o644))
}

func TestLoadTestBatch(t *testing.T) {
	dir := t.TempDir()
	writeBatchFile(t, filepath.Join(dir, testFile), []byte{3, 7}, []byte{255, 0})

	ds, err := Load(dir, false, 0)
	require.NoError(t, err)
	require.Equal(t, 2, ds.NumSamples())

	assert.Equal(t, int32(3), ds.Labels[0])
	assert.Equal(t, int32(7), ds.Labels[1])

	// Pixels are normalized to [0, 1].
	assert.InDelta(t, 1.0, ds.Images[0][0], 1e-6)
	assert.InDelta(t, 1.0, ds.Images[0][ImageSize-1], 1e-6)
	assert.InDelta(t, 0.0, ds.Images[1][0], 1e-6)
	assert.Len(t, ds.Images[0], ImageSize)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(t.TempDir(), false, 0)
	require.Error(t, err)
}

func TestLoadMaxSamples(t *testing.T) {
	dir := t.TempDir()
	writeBatchFile(t, filepath.Join(dir, testFile), []byte{0, 1, 2, 3}, []byte{1, 2, 3, 4})

	ds, err := Load(dir, false, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, ds.NumSamples())
}

func TestSplit(t *testing.T) {
	ds := Synthetic(10)
	train, val := ds.Split(0.2)

	assert.Equal(t, 8, train.NumSamples())
	assert.Equal(t, 2, val.NumSamples())

	// The validation split is the trailing samples, order preserved.
	assert.Equal(t, ds.Labels[8], val.Labels[0])
	assert.Equal(t, ds.Labels[9], val.Labels[1])
}

func TestClassName(t *testing.T) {
	assert.Equal(t, "airplane", ClassName(0))
	assert.Equal(t, "truck", ClassName(9))
}

func TestCreateBatches(t *testing.T) {
	backend := cpu.New()
	ds := Synthetic(10)

	batches, err := CreateBatches(ds, 4, false, backend)
	require.NoError(t, err)
	require.Len(t, batches, 3)

	assert.Equal(t, 4, batches[0].Size)
	assert.Equal(t, 4, batches[1].Size)
	assert.Equal(t, 2, batches[2].Size)

	assert.True(t, batches[0].Images.Shape().Equal(tensor.Shape{4, Channels, Height, Width}))
	assert.True(t, batches[2].Images.Shape().Equal(tensor.Shape{2, Channels, Height, Width}))
	assert.True(t, batches[0].Labels.Shape().Equal(tensor.Shape{4}))

	// Unshuffled batches preserve dataset order.
	for i := 0; i < 4; i++ {
		assert.Equal(t, ds.Labels[i], batches[0].Labels.Data()[i])
	}
}

func TestCreateBatchesShuffleCoversAllSamples(t *testing.T) {
	backend := cpu.New()
	ds := Synthetic(20)

	batches, err := CreateBatches(ds, 5, true, backend)
	require.NoError(t, err)

	counts := map[int32]int{}
	for _, b := range batches {
		for _, label := range b.Labels.Data() {
			counts[label]++
		}
	}
	want := map[int32]int{}
	for _, label := range ds.Labels {
		want[label]++
	}
	assert.Equal(t, want, counts)
}
