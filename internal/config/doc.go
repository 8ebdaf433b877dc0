// Package config loads catsort.yaml and watches files for changes.
package config
