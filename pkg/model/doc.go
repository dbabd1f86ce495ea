// Package model defines the element types the generator reads and creates,
// and the contracts of the external Model Store and Transaction Service.
// Every length in this package is in the store's internal linear unit.
package model
