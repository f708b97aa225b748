package polycommit

import (
	"github.com/MuriData/gkr-fri/fft"
	"github.com/MuriData/gkr-fri/field"
)

// FFTEncoder is the default Encoder: interpolate the message as evaluations
// of a degree-<len(message) polynomial, then re-evaluate that polynomial
// over a domain RSCodeRate bits larger to get the Reed-Solomon codeword.
type FFTEncoder struct {
	domain *fft.Domain
}

// NewFFTEncoder wraps domain (which must support orders up to the largest
// codeword any Encode call will produce).
func NewFFTEncoder(domain *fft.Domain) *FFTEncoder {
	return &FFTEncoder{domain: domain}
}

// Encode implements Encoder.
func (e *FFTEncoder) Encode(message []field.Element) ([]field.Element, error) {
	n := len(message)
	coeffs, err := e.domain.IFFT(message, n, n)
	if err != nil {
		return nil, err
	}
	return e.domain.FFT(coeffs, n<<RSCodeRate)
}
