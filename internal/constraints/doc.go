// Package constraints checks the import graph of the internal packages.
package constraints
