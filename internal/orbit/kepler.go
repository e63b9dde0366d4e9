package orbit

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
)

// ErrNotElliptic is returned for parabolic or hyperbolic initial states.
var ErrNotElliptic = errors.New("orbit is not elliptic")

const (
	keplerTolerance = 1e-12
	keplerMaxIter   = 50
)

// Elements are classical orbital elements. Distances in meters, angles in radians.
type Elements struct {
	SemiMajorAxis float64
	Eccentricity  float64
	Inclination   float64
	RAAN          float64
	ArgPerigee    float64
	TrueAnomaly   float64
}

// Kepler is an unperturbed two-body elliptic orbit.
// Immutable after construction; safe for concurrent use.
type Kepler struct {
	mu    float64
	a     float64 // semi-major axis (m)
	ecc   float64
	p, q  [3]float64 // perifocal unit vectors (to perigee, 90° ahead)
	m0    float64    // mean anomaly at epoch (rad)
	n     float64    // mean motion (rad/s)
	epoch time.Time
}

// NewKeplerFromVectors builds an orbit from a position (m) and velocity (m/s)
// at epoch around a body with gravitational parameter mu (m³/s²).
func NewKeplerFromVectors(mu float64, r, v [3]float64, epoch time.Time) (*Kepler, error) {
	rs, vs := r[:], v[:]
	rMag := floats.Norm(rs, 2)
	vMag := floats.Norm(vs, 2)
	if rMag == 0 || mu <= 0 {
		return nil, fmt.Errorf("degenerate state: |r|=%g mu=%g", rMag, mu)
	}

	energy := vMag*vMag/2 - mu/rMag
	if energy >= 0 {
		return nil, fmt.Errorf("%w: specific energy %g J/kg", ErrNotElliptic, energy)
	}
	a := -mu / (2 * energy)

	h := cross(r, v)
	hMag := floats.Norm(h[:], 2)
	if hMag == 0 {
		return nil, fmt.Errorf("degenerate state: zero angular momentum")
	}

	// e = (v × h)/mu - r/|r|
	vh := cross(v, h)
	var e [3]float64
	for i := range e {
		e[i] = vh[i]/mu - r[i]/rMag
	}
	ecc := floats.Norm(e[:], 2)

	k := &Kepler{mu: mu, a: a, ecc: ecc, n: math.Sqrt(mu / (a * a * a)), epoch: epoch}

	if ecc < 1e-10 {
		// Circular: measure anomalies from the epoch position.
		k.ecc = 0
		k.p = scale(r, 1/rMag)
	} else {
		k.p = scale(e, 1/ecc)
	}
	k.q = scale(cross(h, k.p), 1/hMag)

	var eccAnomaly float64
	if k.ecc > 0 {
		cosE := (1 - rMag/a) / k.ecc
		sinE := floats.Dot(rs, vs) / (k.ecc * math.Sqrt(mu*a))
		eccAnomaly = math.Atan2(sinE, cosE)
	}
	k.m0 = eccAnomaly - k.ecc*math.Sin(eccAnomaly)

	return k, nil
}

// NewKeplerFromElements builds an orbit from classical elements at epoch.
func NewKeplerFromElements(mu float64, el Elements, epoch time.Time) (*Kepler, error) {
	if el.Eccentricity < 0 || el.Eccentricity >= 1 || el.SemiMajorAxis <= 0 {
		return nil, fmt.Errorf("%w: a=%g e=%g", ErrNotElliptic, el.SemiMajorAxis, el.Eccentricity)
	}

	slr := el.SemiMajorAxis * (1 - el.Eccentricity*el.Eccentricity)
	sinNu, cosNu := math.Sincos(el.TrueAnomaly)
	rPF := slr / (1 + el.Eccentricity*cosNu)
	vPF := math.Sqrt(mu / slr)

	p, q := perifocalBasis(el.Inclination, el.RAAN, el.ArgPerigee)

	var r, v [3]float64
	for i := range r {
		r[i] = rPF*cosNu*p[i] + rPF*sinNu*q[i]
		v[i] = -vPF*sinNu*p[i] + vPF*(el.Eccentricity+cosNu)*q[i]
	}
	return NewKeplerFromVectors(mu, r, v, epoch)
}

// Epoch returns the reference instant of the initial state.
func (k *Kepler) Epoch() time.Time {
	return k.epoch
}

// Period returns the orbital period.
func (k *Kepler) Period() time.Duration {
	return time.Duration(2 * math.Pi / k.n * float64(time.Second))
}

// SemiMajorAxis returns the semi-major axis in meters.
func (k *Kepler) SemiMajorAxis() float64 {
	return k.a
}

// Eccentricity returns the orbit eccentricity.
func (k *Kepler) Eccentricity() float64 {
	return k.ecc
}

// Propagate advances the orbit by elapsed from its epoch.
func (k *Kepler) Propagate(elapsed time.Duration) (State, error) {
	m := k.m0 + k.n*elapsed.Seconds()
	E, err := solveKepler(m, k.ecc)
	if err != nil {
		return State{}, err
	}

	sinE, cosE := math.Sincos(E)
	root := math.Sqrt(1 - k.ecc*k.ecc)
	r := k.a * (1 - k.ecc*cosE)

	x := k.a * (cosE - k.ecc)
	y := k.a * root * sinE
	vf := math.Sqrt(k.mu*k.a) / r
	vx := -vf * sinE
	vy := vf * root * cosE

	var s State
	for i := 0; i < 3; i++ {
		s.Position[i] = x*k.p[i] + y*k.q[i]
		s.Velocity[i] = vx*k.p[i] + vy*k.q[i]
	}
	return s, nil
}

// solveKepler solves M = E - e sin E for E by Newton iteration.
func solveKepler(m, ecc float64) (float64, error) {
	m = math.Remainder(m, 2*math.Pi)
	E := m
	if ecc > 0.8 {
		E = math.Pi * math.Copysign(1, m)
	}
	for i := 0; i < keplerMaxIter; i++ {
		f := E - ecc*math.Sin(E) - m
		step := f / (1 - ecc*math.Cos(E))
		E -= step
		if math.Abs(step) < keplerTolerance {
			return E, nil
		}
	}
	return 0, fmt.Errorf("kepler equation did not converge: M=%g e=%g", m, ecc)
}

// perifocalBasis returns the unit vectors toward perigee and 90° ahead of it
// in the inertial frame.
func perifocalBasis(inc, raan, argp float64) (p, q [3]float64) {
	sO, cO := math.Sincos(raan)
	sw, cw := math.Sincos(argp)
	si, ci := math.Sincos(inc)

	p = [3]float64{
		cO*cw - sO*sw*ci,
		sO*cw + cO*sw*ci,
		sw * si,
	}
	q = [3]float64{
		-cO*sw - sO*cw*ci,
		-sO*sw + cO*cw*ci,
		cw * si,
	}
	return p, q
}

func cross(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func scale(v [3]float64, s float64) [3]float64 {
	out := v
	floats.Scale(s, out[:])
	return out
}
