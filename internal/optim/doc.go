// Package optim tunes physics parameters by exhaustive grid search over
// experiment runs.
package optim
