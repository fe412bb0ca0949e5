package model

import (
	"fmt"
	"math"

	"github.com/jedib0t/go-pretty/v6/progress"
	"gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// Train fits a softmax-regression classifier on one-hot encoded labels and
// returns the learned weight matrix. Mini-batch gradient descent with the
// Adam solver, cross-entropy loss and L2 regularization.
func Train(pw progress.Writer, features [][]float64, labels []float64, classes int, epochs int, learnRate, l2Penalty float64) ([]tensor.Tensor, error) {
	if len(features) == 0 {
		return nil, fmt.Errorf("no training samples")
	}

	inputSize := len(features[0])
	batchSize := 32
	if len(features) < batchSize {
		batchSize = len(features)
	}

	var tracker *progress.Tracker
	if pw != nil {
		tracker = &progress.Tracker{
			Message: "Training",
			Total:   int64(epochs),
			Units:   progress.UnitsDefault,
		}
		pw.AppendTracker(tracker)
		tracker.Start()
	}

	g := gorgonia.NewGraph()

	xTensor := gorgonia.NewMatrix(g, tensor.Float64,
		gorgonia.WithShape(batchSize, inputSize),
		gorgonia.WithName("x"))

	yTensor := gorgonia.NewMatrix(g, tensor.Float64,
		gorgonia.WithShape(batchSize, classes),
		gorgonia.WithName("y"))

	w0 := gorgonia.NewMatrix(g, tensor.Float64,
		gorgonia.WithShape(inputSize, classes),
		gorgonia.WithInit(gorgonia.GlorotN(1.0)),
		gorgonia.WithName("w0"))

	pred := gorgonia.Must(gorgonia.Mul(xTensor, w0))
	predSoftmax := gorgonia.Must(gorgonia.SoftMax(pred))

	crossEntropy := gorgonia.Must(gorgonia.Neg(
		gorgonia.Must(gorgonia.Mean(
			gorgonia.Must(gorgonia.Sum(
				gorgonia.Must(gorgonia.HadamardProd(
					yTensor,
					gorgonia.Must(gorgonia.Log(predSoftmax)))),
				1))))))

	regularization := gorgonia.Must(gorgonia.Mul(
		gorgonia.NewConstant(l2Penalty),
		gorgonia.Must(gorgonia.Mean(gorgonia.Must(gorgonia.Square(w0)))),
	))

	loss := gorgonia.Must(gorgonia.Add(crossEntropy, regularization))

	if _, err := gorgonia.Grad(loss, w0); err != nil {
		return nil, fmt.Errorf("failed to compute gradients: %v", err)
	}

	vm := gorgonia.NewTapeMachine(g)
	defer vm.Close()

	solver := gorgonia.NewAdamSolver(
		gorgonia.WithLearnRate(learnRate),
		gorgonia.WithBeta1(0.9),
		gorgonia.WithBeta2(0.999),
		gorgonia.WithEps(1e-8),
		gorgonia.WithClip(1.0),
	)

	bestLoss := math.Inf(1)
	bestWeights := make([]tensor.Tensor, 1)

	for epoch := 0; epoch < epochs; epoch++ {
		if tracker != nil {
			tracker.SetValue(int64(epoch))
		}

		epochLoss := 0.0
		batches := len(features) / batchSize

		for batch := 0; batch < batches; batch++ {
			start := batch * batchSize
			end := start + batchSize
			if end > len(features) {
				break
			}

			indices := make([]int, 0, batchSize)
			for i := start; i < end; i++ {
				indices = append(indices, i)
			}

			batchFeatures := tensor.New(
				tensor.WithShape(batchSize, inputSize),
				tensor.WithBacking(flattenBatchFeatures(features, indices)))
			batchLabels := tensor.New(
				tensor.WithShape(batchSize, classes),
				tensor.WithBacking(flattenBatchLabels(labels, indices, classes)))

			if err := gorgonia.Let(xTensor, batchFeatures); err != nil {
				return nil, fmt.Errorf("failed to update x tensor: %v", err)
			}
			if err := gorgonia.Let(yTensor, batchLabels); err != nil {
				return nil, fmt.Errorf("failed to update y tensor: %v", err)
			}

			vm.Reset()
			if err := vm.RunAll(); err != nil {
				return nil, fmt.Errorf("forward/backward pass failed: %v", err)
			}

			solver.Step(gorgonia.NodesToValueGrads(gorgonia.Nodes{w0}))
			epochLoss += loss.Value().Data().(float64)
		}

		avgLoss := epochLoss / float64(batches)
		if avgLoss < bestLoss {
			bestLoss = avgLoss
			bestWeights[0] = w0.Value().(tensor.Tensor).Clone().(tensor.Tensor)
		}

		if tracker != nil {
			tracker.Message = fmt.Sprintf("Training - loss: %.6f", avgLoss)
		}
	}

	if tracker != nil {
		tracker.MarkAsDone()
	}

	if bestWeights[0] == nil {
		bestWeights[0] = w0.Value().(tensor.Tensor).Clone().(tensor.Tensor)
	}
	return bestWeights, nil
}
