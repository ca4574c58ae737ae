package field

// NationalIDInvalid is returned in place of an identifier that is neither a
// cédula nor a RUC. It intentionally differs from EmailInvalid.
const NationalIDInvalid = "Extracción de dato incorrecta"

const (
	cedulaLength = 10
	rucLength    = 13
)

// NationalID classifies an Ecuadorian identifier by its digit count:
// 10 digits is a cédula, 13 digits is a RUC.
func NationalID(text string) Result {
	digits := keepDigits(text)
	switch len(digits) {
	case cedulaLength:
		return Result{Value: "Cédula:" + digits, Valid: true}
	case rucLength:
		return Result{Value: "RUC:" + digits, Valid: true}
	default:
		return Result{Value: NationalIDInvalid, Valid: false}
	}
}
