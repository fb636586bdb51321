package pose

import (
	"fmt"
	"math"

	"github.com/milosgajdos/matrix"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Axis is a coordinate frame axis
type Axis int

const (
	// AxisX is the X axis
	AxisX Axis = iota
	// AxisY is the Y axis; world Y points up
	AxisY
	// AxisZ is the Z axis
	AxisZ
)

// Vec returns unit vector along the axis.
// It returns zero vector for unknown axis.
func (a Axis) Vec() r3.Vec {
	switch a {
	case AxisX:
		return r3.Vec{X: 1}
	case AxisY:
		return r3.Vec{Y: 1}
	case AxisZ:
		return r3.Vec{Z: 1}
	}
	return r3.Vec{}
}

// sqrtHalf is the sine and cosine of a quarter of a right angle
var sqrtHalf = math.Sqrt(0.5)

// IdentityRotation is a rotation which leaves vectors unchanged
var IdentityRotation = r3.Rotation{Real: 1}

// Identity is a pose with no translation and no rotation
var Identity = Pose{Rotation: IdentityRotation}

// Pose is a rigid transformation: rotation followed by translation.
// Pose is a value type: all operations return new poses.
type Pose struct {
	// Translation is applied after rotation
	Translation r3.Vec
	// Rotation is a unit quaternion
	Rotation r3.Rotation
}

// New creates new pose from translation t and rotation q and returns it.
// Rotation q is normalized; zero rotation is replaced with identity.
func New(t r3.Vec, q r3.Rotation) Pose {
	return Pose{Translation: t, Rotation: normalize(quat.Number(q))}
}

// FromRotation returns pose with rotation q and no translation
func FromRotation(q r3.Rotation) Pose {
	return New(r3.Vec{}, q)
}

// FromTranslation returns pose with translation t and no rotation
func FromTranslation(t r3.Vec) Pose {
	return Pose{Translation: t, Rotation: IdentityRotation}
}

// MakeRotation creates rotation from quaternion components x, y, z and w.
// The quaternion is normalized. Zero or non-finite quaternions yield identity rotation.
func MakeRotation(x, y, z, w float64) r3.Rotation {
	return normalize(quat.Number{Real: w, Imag: x, Jmag: y, Kmag: z})
}

// AxisRotation returns rotation by angle radians about the given axis.
// It returns identity rotation for unknown axis.
func AxisRotation(axis Axis, angle float64) r3.Rotation {
	v := axis.Vec()
	if v == (r3.Vec{}) {
		return IdentityRotation
	}
	return r3.NewRotation(angle, v)
}

// ComposeRotations returns rotation a*b which rotates vectors by b first and then by a.
func ComposeRotations(a, b r3.Rotation) r3.Rotation {
	return normalize(quat.Mul(quat.Number(a), quat.Number(b)))
}

// InverseRotation returns inverse rotation of q
func InverseRotation(q r3.Rotation) r3.Rotation {
	return normalize(quat.Conj(quat.Number(q)))
}

// Interpolate spherically interpolates between rotations a and b along the shortest arc.
// t = 0 returns a and t = 1 returns b. Values of t outside [0, 1] extrapolate along the same arc.
func Interpolate(a, b r3.Rotation, t float64) r3.Rotation {
	qa := quat.Number(a)
	d := quat.Mul(quat.Conj(qa), quat.Number(b))
	if d.Real < 0 {
		d = quat.Scale(-1, d)
	}
	return normalize(quat.Mul(qa, quat.PowReal(d, t)))
}

// DisplayCorrection returns rotation about device Z axis by the given number of display quarter turns.
func DisplayCorrection(quarterTurns int) r3.Rotation {
	return Interpolate(IdentityRotation, MakeRotation(0, 0, sqrtHalf, sqrtHalf), float64(quarterTurns))
}

// EqualApprox returns true if rotations a and b are equal within tol.
// Quaternions q and -q represent the same rotation and are considered equal.
func EqualApprox(a, b r3.Rotation, tol float64) bool {
	qa, qb := quat.Number(a), quat.Number(b)
	if quat.Abs(quat.Sub(qa, qb)) <= tol {
		return true
	}
	return quat.Abs(quat.Add(qa, qb)) <= tol
}

// Compose returns pose a*b: a point is transformed by b first and then by a.
func Compose(a, b Pose) Pose {
	return Pose{
		Translation: r3.Add(a.Translation, a.Rotation.Rotate(b.Translation)),
		Rotation:    ComposeRotations(a.Rotation, b.Rotation),
	}
}

// ExtractRotation returns pose with translation removed
func (p Pose) ExtractRotation() Pose {
	return FromRotation(p.Rotation)
}

// Inverse returns inverse pose of p
func (p Pose) Inverse() Pose {
	q := InverseRotation(p.Rotation)
	return Pose{
		Translation: r3.Scale(-1, q.Rotate(p.Translation)),
		Rotation:    q,
	}
}

// Rotate rotates vector v by pose rotation; translation is ignored
func (p Pose) Rotate(v r3.Vec) r3.Vec {
	return p.Rotation.Rotate(v)
}

// Transform transforms point v by pose rotation and translation
func (p Pose) Transform(v r3.Vec) r3.Vec {
	return r3.Add(p.Rotation.Rotate(v), p.Translation)
}

// Matrix returns pose as 4x4 row-major homogeneous transformation matrix.
func (p Pose) Matrix() *mat.Dense {
	eye, _ := matrix.NewDenseValIdentity(4, 1.0)
	m := mat.DenseCopyOf(eye)
	r := RotationMatrix(p.Rotation)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m.Set(i, j, r.At(i, j))
		}
	}
	m.Set(0, 3, p.Translation.X)
	m.Set(1, 3, p.Translation.Y)
	m.Set(2, 3, p.Translation.Z)

	return m
}

// RotationMatrix returns 3x3 rotation matrix of q
func RotationMatrix(q r3.Rotation) *mat.Dense {
	w, x, y, z := q.Real, q.Imag, q.Jmag, q.Kmag

	return mat.NewDense(3, 3, []float64{
		1 - 2*(y*y+z*z), 2 * (x*y - z*w), 2 * (x*z + y*w),
		2 * (x*y + z*w), 1 - 2*(x*x+z*z), 2 * (y*z - x*w),
		2 * (x*z - y*w), 2 * (y*z + x*w), 1 - 2*(x*x+y*y),
	})
}

// String implements the Stringer interface.
func (p Pose) String() string {
	return fmt.Sprintf("Pose{\nTranslation=%v\nRotation=%v\n}", p.Translation, quat.Number(p.Rotation))
}

func normalize(q quat.Number) r3.Rotation {
	n := quat.Abs(q)
	if n == 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return IdentityRotation
	}
	if n == 1 {
		return r3.Rotation(q)
	}
	return r3.Rotation(quat.Scale(1/n, q))
}
