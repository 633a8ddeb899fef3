// Command cifar-ftswish trains the FTSwish CNN on CIFAR-10, reports test
// loss and accuracy, and renders training-curve charts.
//
// Expects the CIFAR-10 binary distribution (data_batch_*.bin,
// test_batch.bin) in the -data directory, or run with -synthetic to
// exercise the pipeline on generated data.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/HwayGuo/keras-cnn/internal/autodiff"
	"github.com/HwayGuo/keras-cnn/internal/backend/cpu"
	"github.com/HwayGuo/keras-cnn/internal/dataset"
	"github.com/HwayGuo/keras-cnn/internal/model"
	"github.com/HwayGuo/keras-cnn/internal/nn"
	"github.com/HwayGuo/keras-cnn/internal/optim"
	"github.com/HwayGuo/keras-cnn/internal/tensor"
	"github.com/HwayGuo/keras-cnn/internal/train"
)

func main() {
	dataDir := flag.String("data", "./data", "directory containing the CIFAR-10 binary files")
	epochs := flag.Int("epochs", 100, "number of training epochs")
	batchSize := flag.Int("batch", 250, "mini-batch size")
	lr := flag.Float64("lr", 0.001, "Adam learning rate")
	valSplit := flag.Float64("val", 0.2, "fraction of training data held out for validation")
	threshold := flag.Float64("threshold", float64(nn.DefaultThreshold), "FTSwish threshold (must be negative)")
	maxSamples := flag.Int("samples", 0, "cap on training samples (0 = all)")
	useSynthetic := flag.Bool("synthetic", false, "use synthetic data instead of CIFAR-10 files")
	plotsDir := flag.String("plots", ".", "directory for the training-curve charts")
	verbosity := flag.Int("verbosity", 1, "0 = quiet, 1 = per-epoch progress")
	flag.Parse()

	cpuBackend := cpu.New()
	backend := autodiff.New(cpuBackend)

	trainData, valData, testData, err := loadData(*dataDir, *useSynthetic, *maxSamples, *valSplit)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Println("CIFAR-10 binary files not found.")
			fmt.Println("Download cifar-10-binary.tar.gz from https://www.cs.toronto.edu/~kriz/cifar.html")
			fmt.Printf("and extract the .bin files into %s, or run with -synthetic.\n", *dataDir)
			os.Exit(1)
		}
		log.Fatalf("load data: %v", err)
	}

	net := model.NewFTSwishCNN(float32(*threshold), backend)
	if *verbosity >= 1 {
		fmt.Printf("%s: %d trainable parameters, threshold %g\n", model.Name, net.NumParameters(), net.Threshold())
		fmt.Printf("train %d / val %d / test %d samples, batch %d, %d epochs, lr %g\n",
			trainData.NumSamples(), valData.NumSamples(), testData.NumSamples(), *batchSize, *epochs, *lr)
	}

	optimizer := optim.NewAdam(net.Parameters(), optim.AdamConfig{
		LR:    float32(*lr),
		Betas: [2]float32{0.9, 0.999},
		Eps:   1e-8,
	})
	criterion := nn.NewCrossEntropyLoss[*autodiff.AutodiffBackend[*cpu.Backend]](backend)

	valBatches, err := dataset.CreateBatches(valData, *batchSize, false, backend)
	if err != nil {
		log.Fatalf("create validation batches: %v", err)
	}
	testBatches, err := dataset.CreateBatches(testData, *batchSize, false, backend)
	if err != nil {
		log.Fatalf("create test batches: %v", err)
	}

	backend.Tape().StartRecording()

	history := train.NewHistory()
	for epoch := 0; epoch < *epochs; epoch++ {
		// Reshuffle every epoch.
		trainBatches, err := dataset.CreateBatches(trainData, *batchSize, true, backend)
		if err != nil {
			log.Fatalf("create training batches: %v", err)
		}

		loss, acc := trainEpoch(net, criterion, trainBatches, optimizer, backend)
		valLoss, valAcc := evaluate(net, criterion, valBatches, backend)
		history.Append(loss, acc, valLoss, valAcc)

		if *verbosity >= 1 {
			fmt.Printf("Epoch %3d/%d: loss=%.4f acc=%.4f val_loss=%.4f val_acc=%.4f\n",
				epoch+1, *epochs, loss, acc, valLoss, valAcc)
		}
	}

	testLoss, testAcc := evaluate(net, criterion, testBatches, backend)
	fmt.Printf("Test loss for %s: %v / Test accuracy: %v\n", model.Name, testLoss, testAcc)
	if *verbosity >= 1 {
		printClassAccuracy(net, testBatches, backend)
	}

	if err := history.SaveCurves(*plotsDir); err != nil {
		log.Fatalf("save training curves: %v", err)
	}
}

// loadData returns the train/validation/test datasets.
func loadData(dir string, synthetic bool, maxSamples int, valSplit float64) (trainData, valData, testData *dataset.Dataset, err error) {
	if synthetic {
		trainData, valData = dataset.Synthetic(500).Split(valSplit)
		testData = dataset.Synthetic(100)
		return trainData, valData, testData, nil
	}

	all, err := dataset.Load(dir, true, maxSamples)
	if err != nil {
		return nil, nil, nil, err
	}
	trainData, valData = all.Split(valSplit)

	testData, err = dataset.Load(dir, false, maxSamples)
	if err != nil {
		return nil, nil, nil, err
	}
	return trainData, valData, testData, nil
}

// trainEpoch runs one pass over the training batches.
func trainEpoch[B tensor.Backend](
	net *model.FTSwishCNN[*autodiff.AutodiffBackend[B]],
	criterion *nn.CrossEntropyLoss[*autodiff.AutodiffBackend[B]],
	batches []*dataset.Batch[*autodiff.AutodiffBackend[B]],
	optimizer optim.Optimizer,
	backend *autodiff.AutodiffBackend[B],
) (avgLoss, accuracy float32) {
	net.SetTraining(true)

	var totalLoss float32
	totalCorrect, totalSamples := 0, 0

	for _, batch := range batches {
		probs := net.Forward(batch.Images)
		loss := criterion.Forward(probs, batch.Labels)

		grads := autodiff.Backward(loss, backend)
		optimizer.Step(grads)
		backend.Tape().Clear()

		// Weight by batch size so a short trailing batch does not skew
		// the per-sample average.
		totalLoss += loss.Item() * float32(batch.Size)
		acc := nn.Accuracy(probs, batch.Labels)
		totalCorrect += int(acc*float32(batch.Size) + 0.5)
		totalSamples += batch.Size
	}
	return totalLoss / float32(totalSamples), float32(totalCorrect) / float32(totalSamples)
}

// evaluate computes loss and accuracy without recording or dropout.
func evaluate[B tensor.Backend](
	net *model.FTSwishCNN[*autodiff.AutodiffBackend[B]],
	criterion *nn.CrossEntropyLoss[*autodiff.AutodiffBackend[B]],
	batches []*dataset.Batch[*autodiff.AutodiffBackend[B]],
	backend *autodiff.AutodiffBackend[B],
) (avgLoss, accuracy float32) {
	net.SetTraining(false)
	defer net.SetTraining(true)

	wasRecording := backend.Tape().IsRecording()
	backend.Tape().StopRecording()
	defer func() {
		if wasRecording {
			backend.Tape().StartRecording()
		}
	}()

	var totalLoss float32
	totalCorrect, totalSamples := 0, 0

	for _, batch := range batches {
		probs := net.Forward(batch.Images)
		loss := criterion.Forward(probs, batch.Labels)

		totalLoss += loss.Item() * float32(batch.Size)
		acc := nn.Accuracy(probs, batch.Labels)
		totalCorrect += int(acc*float32(batch.Size) + 0.5)
		totalSamples += batch.Size
	}
	return totalLoss / float32(totalSamples), float32(totalCorrect) / float32(totalSamples)
}

// printClassAccuracy reports the test accuracy broken down by class.
func printClassAccuracy[B tensor.Backend](
	net *model.FTSwishCNN[*autodiff.AutodiffBackend[B]],
	batches []*dataset.Batch[*autodiff.AutodiffBackend[B]],
	backend *autodiff.AutodiffBackend[B],
) {
	net.SetTraining(false)
	defer net.SetTraining(true)

	wasRecording := backend.Tape().IsRecording()
	backend.Tape().StopRecording()
	defer func() {
		if wasRecording {
			backend.Tape().StartRecording()
		}
	}()

	var correct, total [dataset.NumClasses]int
	for _, batch := range batches {
		preds := net.Forward(batch.Images).Argmax(1).Data()
		labels := batch.Labels.Data()
		for i, label := range labels {
			total[label]++
			if preds[i] == label {
				correct[label]++
			}
		}
	}

	for c := int32(0); c < dataset.NumClasses; c++ {
		if total[c] == 0 {
			continue
		}
		fmt.Printf("  %-10s %.4f\n", dataset.ClassName(c), float32(correct[c])/float32(total[c]))
	}
}
