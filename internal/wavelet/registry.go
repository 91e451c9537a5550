package wavelet

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownWavelet is matched by every lookup failure.
var ErrUnknownWavelet = errors.New("unknown wavelet")

// UnknownWaveletError reports the name that failed to resolve.
type UnknownWaveletError struct {
	Name string
}

func (e *UnknownWaveletError) Error() string {
	return fmt.Sprintf("unknown wavelet %q", e.Name)
}

func (e *UnknownWaveletError) Is(target error) bool { return target == ErrUnknownWavelet }

// Wavelet is an orthogonal filter bank. Filters follow the PyWavelets layout:
// DecLo is the time-reversed RecLo and the high-pass pair is the quadrature mirror.
type Wavelet struct {
	Name   string
	Family string
	DecLo  []float64
	DecHi  []float64
	RecLo  []float64
	RecHi  []float64
}

// Len returns the filter length.
func (w *Wavelet) Len() int { return len(w.RecLo) }

// scaling filters (rec_lo), normalised to sum sqrt(2)
var scalingFilters = map[string]struct {
	family string
	h      []float64
}{
	"haar": {"Haar", []float64{
		0.7071067811865476, 0.7071067811865476,
	}},
	"db1": {"Daubechies", []float64{
		0.7071067811865476, 0.7071067811865476,
	}},
	"db2": {"Daubechies", []float64{
		0.48296291314469025, 0.836516303737469,
		0.22414386804185735, -0.12940952255092145,
	}},
	"db3": {"Daubechies", []float64{
		0.3326705529509569, 0.8068915093133388, 0.4598775021193313,
		-0.13501102001039084, -0.08544127388224149, 0.035226291882100656,
	}},
	"db4": {"Daubechies", []float64{
		0.23037781330885523, 0.7148465705525415, 0.6308807679295904, -0.02798376941698385,
		-0.18703481171888114, 0.030841381835986965, 0.032883011666982945, -0.010597401784997278,
	}},
	"db5": {"Daubechies", []float64{
		0.160102397974125, 0.6038292697974729, 0.7243085284385744, 0.13842814590110342,
		-0.24229488706619015, -0.03224486958502952, 0.07757149384006515, -0.006241490213011705,
		-0.012580751999015526, 0.0033357252850015492,
	}},
	"db6": {"Daubechies", []float64{
		0.11154074335008017, 0.4946238903983854, 0.7511339080215775, 0.3152503517092432,
		-0.22626469396516913, -0.12976686756709563, 0.09750160558707936, 0.02752286553001629,
		-0.031582039318031156, 0.0005538422009938016, 0.004777257511010651, -0.00107730108499558,
	}},
	"sym2": {"Symlets", []float64{
		0.48296291314469025, 0.836516303737469,
		0.22414386804185735, -0.12940952255092145,
	}},
	"sym3": {"Symlets", []float64{
		0.3326705529509569, 0.8068915093133388, 0.4598775021193313,
		-0.13501102001039084, -0.08544127388224149, 0.035226291882100656,
	}},
	"sym4": {"Symlets", []float64{
		0.0322231006040427, -0.012603967262037833, -0.09921954357684722, 0.29785779560527736,
		0.8037387518059161, 0.49761866763201545, -0.02963552764599851, -0.07576571478927333,
	}},
	"sym5": {"Symlets", []float64{
		0.019538882735286728, -0.021101834024758855, -0.17532808990845047, 0.01660210576452232,
		0.6339789634582119, 0.7234076904024206, 0.1993975339773936, -0.039134249302383094,
		0.029519490925774643, 0.027333068345077982,
	}},
}

var registry = buildRegistry()

func buildRegistry() map[string]*Wavelet {
	out := make(map[string]*Wavelet, len(scalingFilters))
	for name, sf := range scalingFilters {
		out[name] = newOrthogonal(name, sf.family, sf.h)
	}
	return out
}

func newOrthogonal(name, family string, recLo []float64) *Wavelet {
	n := len(recLo)
	w := &Wavelet{
		Name:   name,
		Family: family,
		DecLo:  make([]float64, n),
		DecHi:  make([]float64, n),
		RecLo:  append([]float64(nil), recLo...),
		RecHi:  make([]float64, n),
	}
	for k := 0; k < n; k++ {
		w.DecLo[k] = recLo[n-1-k]
		if k%2 == 0 {
			w.DecHi[k] = -recLo[k]
		} else {
			w.DecHi[k] = recLo[k]
		}
	}
	for k := 0; k < n; k++ {
		w.RecHi[k] = w.DecHi[n-1-k]
	}
	return w
}

// Lookup resolves a wavelet by name (case-insensitive). The returned value is
// shared and must not be modified.
func Lookup(name string) (*Wavelet, error) {
	w, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, &UnknownWaveletError{Name: name}
	}
	return w, nil
}

// Names lists the supported wavelets in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
