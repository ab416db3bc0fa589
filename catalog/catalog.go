// Package catalog lists published functions used as regression fixtures and
// by the example command.
package catalog

// Dahu9Hex is the truth table of a 9-variable dahu, first point in the MSB
// of the leading hex digit (leading zeros omitted). It is 3-resilient with
// algebraic immunity 5 and degree 5, and happens to be rotation-symmetric.
const Dahu9Hex = "0x69c3e14be916349ef8c3163c1e25c3e9aa95a55a167c4fb007b85d66e15eb883" +
	"99999666c9666399073c6eb434fa9e41556a9a9536a66c69f84762a9cb81915f"

// Dahu9 describes Dahu9Hex.
var Dahu9 = Function{Locality: 9, Resiliency: 3, AlgebraicImmunity: 5}

// RSF11SANF is the simplified ANF of an 11-variable rotation-symmetric
// function, 4-resilient with algebraic immunity 6 and balanced.
const RSF11SANF = "0101000100010001000000100101000100000000000000000000100110000000" +
	"0000000000000000000000000000001000000000000000000000000000000000" +
	"000000000000000000000000000000000000000000000000000000000000"

// RSF11 describes RSF11SANF.
var RSF11 = Function{Locality: 11, Resiliency: 4, AlgebraicImmunity: 6}

// Function records the parameters a catalog entry reaches.
type Function struct {
	Locality          int
	Resiliency        int
	AlgebraicImmunity int
}
