package model

import (
	"fmt"

	"gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// Predict runs the forward pass for one sample and returns the class
// probabilities.
func Predict(weights []tensor.Tensor, input []float64) ([]float64, error) {
	g := gorgonia.NewGraph()
	inputSize := len(input)

	xVal := tensor.New(
		tensor.WithShape(1, inputSize),
		tensor.Of(tensor.Float64),
		tensor.WithBacking(input),
	)

	xTensor := gorgonia.NewMatrix(g, tensor.Float64,
		gorgonia.WithShape(1, inputSize),
		gorgonia.WithValue(xVal))

	w0 := gorgonia.NewMatrix(g, tensor.Float64,
		gorgonia.WithShape(weights[0].Shape()...),
		gorgonia.WithValue(weights[0]))

	pred := gorgonia.Must(gorgonia.Mul(xTensor, w0))
	predSoftmax := gorgonia.Must(gorgonia.SoftMax(pred))

	vm := gorgonia.NewTapeMachine(g)
	defer vm.Close()

	if err := vm.RunAll(); err != nil {
		return nil, fmt.Errorf("forward pass failed: %v", err)
	}

	output := predSoftmax.Value().Data().([]float64)
	return output, nil
}

func argmax(slice []float64) int {
	maxIndex := 0
	maxValue := slice[0]
	for i, value := range slice {
		if value > maxValue {
			maxValue = value
			maxIndex = i
		}
	}
	return maxIndex
}
