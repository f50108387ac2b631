// Package util holds credential cleaning and masking, and size parsing.
package util
