// Package dataset loads CIFAR-10 and prepares mini-batches of tensors.
package dataset

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
)

// CIFAR-10 binary format constants. Each record is a label byte followed
// by 3072 pixel bytes in channel-major order (1024 red, 1024 green,
// 1024 blue), rows within a channel stored top to bottom.
const (
	NumClasses = 10
	Channels   = 3
	Height     = 32
	Width      = 32
	ImageSize  = Channels * Height * Width // 3072 floats per image
	recordSize = 1 + ImageSize
)

// trainFiles are the five training batches of the binary distribution.
var trainFiles = []string{
	"data_batch_1.bin",
	"data_batch_2.bin",
	"data_batch_3.bin",
	"data_batch_4.bin",
	"data_batch_5.bin",
}

const testFile = "test_batch.bin"

// classNames maps CIFAR-10 labels to their category names.
var classNames = [NumClasses]string{
	"airplane", "automobile", "bird", "cat", "deer",
	"dog", "frog", "horse", "ship", "truck",
}

// ClassName returns the category name for a label.
func ClassName(label int32) string {
	if label < 0 || label >= NumClasses {
		return "unknown"
	}
	return classNames[label]
}

// Dataset holds normalized images and their labels. Images keep the
// on-disk channel-major (CHW) order, scaled from bytes into [0, 1].
type Dataset struct {
	Images [][]float32
	Labels []int32
}

// NumSamples returns the number of images.
func (d *Dataset) NumSamples() int { return len(d.Images) }

// Load reads the CIFAR-10 binary files from dir. With train=true the five
// training batches are concatenated; otherwise the test batch is read.
// maxSamples caps the result when positive.
func Load(dir string, train bool, maxSamples int) (*Dataset, error) {
	files := []string{testFile}
	if train {
		files = trainFiles
	}

	data := &Dataset{}
	for _, name := range files {
		if err := data.readFile(filepath.Join(dir, name)); err != nil {
			return nil, err
		}
		if maxSamples > 0 && data.NumSamples() >= maxSamples {
			data.Images = data.Images[:maxSamples]
			data.Labels = data.Labels[:maxSamples]
			break
		}
	}
	return data, nil
}

// readFile appends all records from one binary batch file.
func (d *Dataset) readFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	record := make([]byte, recordSize)
	for {
		_, err := io.ReadFull(f, record)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		label := int32(record[0])
		if label >= NumClasses {
			return fmt.Errorf("read %s: invalid label %d", path, label)
		}

		image := make([]float32, ImageSize)
		for i, b := range record[1:] {
			image[i] = float32(b) / 255.0
		}

		d.Images = append(d.Images, image)
		d.Labels = append(d.Labels, label)
	}
}

// Split partitions the dataset, putting the trailing valFraction of the
// samples into the validation set.
func (d *Dataset) Split(valFraction float64) (train, val *Dataset) {
	n := d.NumSamples()
	valSize := int(float64(n) * valFraction)
	cut := n - valSize

	train = &Dataset{Images: d.Images[:cut], Labels: d.Labels[:cut]}
	val = &Dataset{Images: d.Images[cut:], Labels: d.Labels[cut:]}
	return train, val
}

// Synthetic generates n random images with labels cycling through the
// classes, for exercising the pipeline without the CIFAR-10 files.
func Synthetic(n int) *Dataset {
	d := &Dataset{
		Images: make([][]float32, n),
		Labels: make([]int32, n),
	}
	for i := 0; i < n; i++ {
		image := make([]float32, ImageSize)
		for j := range image {
			image[j] = rand.Float32()
		}
		d.Images[i] = image
		d.Labels[i] = int32(i % NumClasses)
	}
	return d
}
