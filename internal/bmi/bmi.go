// Package bmi computes body mass index from form input.
package bmi

import (
	"errors"
	"strconv"
	"strings"
)

var (
	ErrInvalidInput = errors.New("bmi: height and weight must be positive numbers")
	ErrHeightRange  = errors.New("bmi: height out of range")
	ErrWeightRange  = errors.New("bmi: weight out of range")
)

// Message returns the text shown to the user for an error from Calculate.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrHeightRange):
		return "Height must be between 0.5 and 3.0 meters."
	case errors.Is(err, ErrWeightRange):
		return "Weight must be between 20 and 300 kg."
	default:
		return "Please enter valid height and weight values."
	}
}

const (
	MinHeight = 0.5
	MaxHeight = 3.0
	MinWeight = 20.0
	MaxWeight = 300.0
)

type Category struct {
	Name  string
	Color string // bootstrap alert variant
	Icon  string
}

var (
	Underweight = Category{Name: "Underweight", Color: "info", Icon: "📉"}
	Normal      = Category{Name: "Normal weight", Color: "success", Icon: "✅"}
	Overweight  = Category{Name: "Overweight", Color: "warning", Icon: "⚠️"}
	Obese       = Category{Name: "Obese", Color: "danger", Icon: "🔴"}
)

type Result struct {
	Height   float64
	Weight   float64
	BMI      float64
	Category Category
}

// Calculate parses height in metres and weight in kilograms. Use Message to
// turn a returned error into user-facing text.
func Calculate(height, weight string) (Result, error) {
	h, herr := strconv.ParseFloat(strings.TrimSpace(height), 64)
	w, werr := strconv.ParseFloat(strings.TrimSpace(weight), 64)
	if herr != nil || werr != nil || !(h > 0) || !(w > 0) {
		return Result{}, ErrInvalidInput
	}
	if h < MinHeight || h > MaxHeight {
		return Result{}, ErrHeightRange
	}
	if w < MinWeight || w > MaxWeight {
		return Result{}, ErrWeightRange
	}

	value := w / (h * h)
	return Result{
		Height:   h,
		Weight:   w,
		BMI:      value,
		Category: Categorize(value),
	}, nil
}

func Categorize(value float64) Category {
	switch {
	case value < 18.5:
		return Underweight
	case value < 25:
		return Normal
	case value < 30:
		return Overweight
	default:
		return Obese
	}
}
