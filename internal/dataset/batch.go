package dataset

import (
	"fmt"
	"math/rand"

	"github.com/HwayGuo/keras-cnn/internal/tensor"
)

// Batch is one mini-batch ready for the model: images as a
// [size, 3, 32, 32] float32 tensor and labels as a [size] int32 tensor.
type Batch[B tensor.Backend] struct {
	Images *tensor.Tensor[float32, B]
	Labels *tensor.Tensor[int32, B]
	Size   int
}

// CreateBatches splits the dataset into mini-batches, optionally after a
// Fisher-Yates shuffle. The last batch may be smaller when the sample
// count does not divide evenly.
func CreateBatches[B tensor.Backend](
	data *Dataset,
	batchSize int,
	shuffle bool,
	backend B,
) ([]*Batch[B], error) {
	n := data.NumSamples()
	if n != len(data.Labels) {
		return nil, fmt.Errorf("images and labels length mismatch: %d vs %d", n, len(data.Labels))
	}
	if batchSize < 1 {
		return nil, fmt.Errorf("batch size must be positive, got %d", batchSize)
	}

	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	if shuffle {
		rand.Shuffle(n, func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
	}

	batches := make([]*Batch[B], 0, (n+batchSize-1)/batchSize)
	for start := 0; start < n; start += batchSize {
		end := start + batchSize
		if end > n {
			end = n
		}
		size := end - start

		imagesRaw, err := tensor.NewRaw(tensor.Shape{size, Channels, Height, Width}, tensor.Float32, backend.Device())
		if err != nil {
			return nil, fmt.Errorf("create images tensor: %w", err)
		}
		labelsRaw, err := tensor.NewRaw(tensor.Shape{size}, tensor.Int32, backend.Device())
		if err != nil {
			return nil, fmt.Errorf("create labels tensor: %w", err)
		}

		images := imagesRaw.AsFloat32()
		labels := labelsRaw.AsInt32()
		for i := start; i < end; i++ {
			idx := indices[i]
			copy(images[(i-start)*ImageSize:(i-start+1)*ImageSize], data.Images[idx])
			labels[i-start] = data.Labels[idx]
		}

		batches = append(batches, &Batch[B]{
			Images: tensor.New[float32, B](imagesRaw, backend),
			Labels: tensor.New[int32, B](labelsRaw, backend),
			Size:   size,
		})
	}
	return batches, nil
}
