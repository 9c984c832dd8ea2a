// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slice holds generic helpers for transforming slices.
package slice

// Map returns transform applied to every element of input, in order.
// A nil input yields an empty, non-nil slice.
func Map[T any, U any](input []T, transform func(T) U) []U {
	output := make([]U, 0, len(input))
	for _, item := range input {
		output = append(output, transform(item))
	}
	return output
}
