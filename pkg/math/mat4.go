package math

import (
	"errors"
	gomath "math"

	"github.com/chewxy/math32"
)

// Errors returned by the camera and projection constructors.
var (
	ErrDegenerateBasis   = errors.New("degenerate look-at basis")
	ErrDegenerateFrustum = errors.New("degenerate frustum")
)

// singularEpsilon is the ratio of |det| to the product of the column
// lengths below which a matrix is treated as non-invertible. The ratio is 1
// for orthogonal columns and does not depend on scale or translation size.
const singularEpsilon = 1e-6

// Mat4 is a 4x4 matrix in column-major order (OpenGL compatible).
// Layout: [m0 m4 m8  m12]
//
//	[m1 m5 m9  m13]
//	[m2 m6 m10 m14]
//	[m3 m7 m11 m15]
type Mat4 [16]float32

// Vec4 is a 4-component vector.
type Vec4 [4]float32

// Identity returns an identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translation returns a translation matrix.
func Translation(x, y, z float32) Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		x, y, z, 1,
	}
}

// Scaling returns a scale matrix.
func Scaling(x, y, z float32) Mat4 {
	return Mat4{
		x, 0, 0, 0,
		0, y, 0, 0,
		0, 0, z, 0,
		0, 0, 0, 1,
	}
}

// RotationX returns a rotation matrix around the X axis.
// angle is in radians.
func RotationX(angle float32) Mat4 {
	c, s := math32.Cos(angle), math32.Sin(angle)
	return Mat4{
		1, 0, 0, 0,
		0, c, s, 0,
		0, -s, c, 0,
		0, 0, 0, 1,
	}
}

// RotationY returns a rotation matrix around the Y axis.
// angle is in radians.
func RotationY(angle float32) Mat4 {
	c, s := math32.Cos(angle), math32.Sin(angle)
	return Mat4{
		c, 0, -s, 0,
		0, 1, 0, 0,
		s, 0, c, 0,
		0, 0, 0, 1,
	}
}

// RotationZ returns a rotation matrix around the Z axis.
// angle is in radians.
func RotationZ(angle float32) Mat4 {
	c, s := math32.Cos(angle), math32.Sin(angle)
	return Mat4{
		c, s, 0, 0,
		-s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// RotationAxis creates a rotation matrix around an arbitrary axis.
// The axis is normalized here; angle is in radians.
func RotationAxis(axis Vec3, angle float32) Mat4 {
	a := axis.Normalize()
	if a.IsZero() {
		return Identity()
	}
	c, s := math32.Cos(angle), math32.Sin(angle)
	t := 1 - c
	x, y, z := a.X, a.Y, a.Z

	return Mat4{
		t*x*x + c, t*x*y + s*z, t*x*z - s*y, 0,
		t*x*y - s*z, t*y*y + c, t*y*z + s*x, 0,
		t*x*z + s*y, t*y*z - s*x, t*z*z + c, 0,
		0, 0, 0, 1,
	}
}

// Mul multiplies this matrix by another (m * other). Column c of the
// result is m applied to column c of other.
func (m Mat4) Mul(other Mat4) Mat4 {
	var result Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			result[col*4+row] =
				m[0*4+row]*other[col*4+0] +
					m[1*4+row]*other[col*4+1] +
					m[2*4+row]*other[col*4+2] +
					m[3*4+row]*other[col*4+3]
		}
	}
	return result
}

// Transpose returns the transposed matrix.
func (m Mat4) Transpose() Mat4 {
	return Mat4{
		m[0], m[4], m[8], m[12],
		m[1], m[5], m[9], m[13],
		m[2], m[6], m[10], m[14],
		m[3], m[7], m[11], m[15],
	}
}

// The composition helpers below put the new operation on the LEFT of the
// accumulator: m.Translate(t) == Translation(t).Mul(m). Chained calls
// therefore apply in the order they are written.

// Translate returns Translation(x, y, z) * m.
func (m Mat4) Translate(x, y, z float32) Mat4 {
	return Translation(x, y, z).Mul(m)
}

// Scale returns Scaling(x, y, z) * m.
func (m Mat4) Scale(x, y, z float32) Mat4 {
	return Scaling(x, y, z).Mul(m)
}

// RotateX returns RotationX(angle) * m.
func (m Mat4) RotateX(angle float32) Mat4 {
	return RotationX(angle).Mul(m)
}

// RotateY returns RotationY(angle) * m.
func (m Mat4) RotateY(angle float32) Mat4 {
	return RotationY(angle).Mul(m)
}

// RotateZ returns RotationZ(angle) * m.
func (m Mat4) RotateZ(angle float32) Mat4 {
	return RotationZ(angle).Mul(m)
}

// TransformPoint transforms a 3D point by this matrix (assumes w=1) and
// performs the perspective divide when w is not 0 or 1.
func (m Mat4) TransformPoint(p Vec3) Vec3 {
	v := m.MulVec4(Vec4{p.X, p.Y, p.Z, 1})
	if v[3] != 0 && v[3] != 1 {
		return Vec3{v[0] / v[3], v[1] / v[3], v[2] / v[3]}
	}
	return Vec3{v[0], v[1], v[2]}
}

// TransformDirection transforms a direction vector (ignores translation).
func (m Mat4) TransformDirection(d Vec3) Vec3 {
	return Vec3{
		m[0]*d.X + m[4]*d.Y + m[8]*d.Z,
		m[1]*d.X + m[5]*d.Y + m[9]*d.Z,
		m[2]*d.X + m[6]*d.Y + m[10]*d.Z,
	}
}

// MulVec4 multiplies the matrix by a Vec4.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		m[0]*v[0] + m[4]*v[1] + m[8]*v[2] + m[12]*v[3],
		m[1]*v[0] + m[5]*v[1] + m[9]*v[2] + m[13]*v[3],
		m[2]*v[0] + m[6]*v[1] + m[10]*v[2] + m[14]*v[3],
		m[3]*v[0] + m[7]*v[1] + m[11]*v[2] + m[15]*v[3],
	}
}

// Upper3x3 returns the upper-left 3x3 block.
func (m Mat4) Upper3x3() Mat3 {
	return Mat3{
		m[0], m[1], m[2],
		m[4], m[5], m[6],
		m[8], m[9], m[10],
	}
}

// IsAffine reports whether the bottom row is [0 0 0 1].
func (m Mat4) IsAffine() bool {
	return m[3] == 0 && m[7] == 0 && m[11] == 0 && m[15] == 1
}

// ApproxEqual reports whether every element differs by at most eps.
func (m Mat4) ApproxEqual(other Mat4, eps float32) bool {
	for i := range m {
		if math32.Abs(m[i]-other[i]) > eps {
			return false
		}
	}
	return true
}

// Ptr returns a pointer to the first element (for OpenGL uniform calls).
func (m *Mat4) Ptr() *float32 {
	return &m[0]
}

// Inverse returns the inverse of the matrix using full cofactor expansion.
// For a singular matrix it returns the identity and false.
func (m Mat4) Inverse() (Mat4, bool) {
	c00 := m[5]*m[10]*m[15] - m[5]*m[11]*m[14] - m[9]*m[6]*m[15] + m[9]*m[7]*m[14] + m[13]*m[6]*m[11] - m[13]*m[7]*m[10]
	c01 := -m[1]*m[10]*m[15] + m[1]*m[11]*m[14] + m[9]*m[2]*m[15] - m[9]*m[3]*m[14] - m[13]*m[2]*m[11] + m[13]*m[3]*m[10]
	c02 := m[1]*m[6]*m[15] - m[1]*m[7]*m[14] - m[5]*m[2]*m[15] + m[5]*m[3]*m[14] + m[13]*m[2]*m[7] - m[13]*m[3]*m[6]
	c03 := -m[1]*m[6]*m[11] + m[1]*m[7]*m[10] + m[5]*m[2]*m[11] - m[5]*m[3]*m[10] - m[9]*m[2]*m[7] + m[9]*m[3]*m[6]

	c10 := -m[4]*m[10]*m[15] + m[4]*m[11]*m[14] + m[8]*m[6]*m[15] - m[8]*m[7]*m[14] - m[12]*m[6]*m[11] + m[12]*m[7]*m[10]
	c11 := m[0]*m[10]*m[15] - m[0]*m[11]*m[14] - m[8]*m[2]*m[15] + m[8]*m[3]*m[14] + m[12]*m[2]*m[11] - m[12]*m[3]*m[10]
	c12 := -m[0]*m[6]*m[15] + m[0]*m[7]*m[14] + m[4]*m[2]*m[15] - m[4]*m[3]*m[14] - m[12]*m[2]*m[7] + m[12]*m[3]*m[6]
	c13 := m[0]*m[6]*m[11] - m[0]*m[7]*m[10] - m[4]*m[2]*m[11] + m[4]*m[3]*m[10] + m[8]*m[2]*m[7] - m[8]*m[3]*m[6]

	c20 := m[4]*m[9]*m[15] - m[4]*m[11]*m[13] - m[8]*m[5]*m[15] + m[8]*m[7]*m[13] + m[12]*m[5]*m[11] - m[12]*m[7]*m[9]
	c21 := -m[0]*m[9]*m[15] + m[0]*m[11]*m[13] + m[8]*m[1]*m[15] - m[8]*m[3]*m[13] - m[12]*m[1]*m[11] + m[12]*m[3]*m[9]
	c22 := m[0]*m[5]*m[15] - m[0]*m[7]*m[13] - m[4]*m[1]*m[15] + m[4]*m[3]*m[13] + m[12]*m[1]*m[7] - m[12]*m[3]*m[5]
	c23 := -m[0]*m[5]*m[11] + m[0]*m[7]*m[9] + m[4]*m[1]*m[11] - m[4]*m[3]*m[9] - m[8]*m[1]*m[7] + m[8]*m[3]*m[5]

	c30 := -m[4]*m[9]*m[14] + m[4]*m[10]*m[13] + m[8]*m[5]*m[14] - m[8]*m[6]*m[13] - m[12]*m[5]*m[10] + m[12]*m[6]*m[9]
	c31 := m[0]*m[9]*m[14] - m[0]*m[10]*m[13] - m[8]*m[1]*m[14] + m[8]*m[2]*m[13] + m[12]*m[1]*m[10] - m[12]*m[2]*m[9]
	c32 := -m[0]*m[5]*m[14] + m[0]*m[6]*m[13] + m[4]*m[1]*m[14] - m[4]*m[2]*m[13] - m[12]*m[1]*m[6] + m[12]*m[2]*m[5]
	c33 := m[0]*m[5]*m[10] - m[0]*m[6]*m[9] - m[4]*m[1]*m[10] + m[4]*m[2]*m[9] + m[8]*m[1]*m[6] - m[8]*m[2]*m[5]

	det := m[0]*c00 + m[4]*c01 + m[8]*c02 + m[12]*c03
	if isSingular(det, m[:], 4) {
		return Identity(), false
	}

	invDet := 1.0 / det

	return Mat4{
		c00 * invDet, c01 * invDet, c02 * invDet, c03 * invDet,
		c10 * invDet, c11 * invDet, c12 * invDet, c13 * invDet,
		c20 * invDet, c21 * invDet, c22 * invDet, c23 * invDet,
		c30 * invDet, c31 * invDet, c32 * invDet, c33 * invDet,
	}, true
}

// InverseRigid inverts a rotation+translation matrix by transposing the
// rotation block and negating the rotated translation. The result is only
// meaningful when m carries no scale or shear.
func (m Mat4) InverseRigid() Mat4 {
	// rows of the inverse rotation are the columns of m
	r00, r01, r02 := m[0], m[1], m[2]
	r10, r11, r12 := m[4], m[5], m[6]
	r20, r21, r22 := m[8], m[9], m[10]
	tx, ty, tz := m[12], m[13], m[14]

	return Mat4{
		r00, r10, r20, 0,
		r01, r11, r21, 0,
		r02, r12, r22, 0,
		-(r00*tx + r01*ty + r02*tz),
		-(r10*tx + r11*ty + r12*tz),
		-(r20*tx + r21*ty + r22*tz),
		1,
	}
}

// isSingular compares det with the Hadamard bound of the column-major n x n
// matrix m, the largest |det| columns of these lengths can have.
func isSingular(det float32, m []float32, n int) bool {
	if math32.IsNaN(det) || math32.IsInf(det, 0) || det == 0 {
		return true
	}
	bound := 1.0
	for c := 0; c < n; c++ {
		var sq float64
		for r := 0; r < n; r++ {
			v := float64(m[c*n+r])
			sq += v * v
		}
		bound *= gomath.Sqrt(sq)
	}
	return gomath.Abs(float64(det)) <= singularEpsilon*bound
}

// CameraToWorld builds the camera placement matrix for an eye looking at
// target. Its columns are the camera X, Y and Z axes followed by the eye
// position. ErrDegenerateBasis is returned (with the identity) when eye and
// target coincide or up is parallel to the viewing direction.
func CameraToWorld(eye, target, up Vec3) (Mat4, error) {
	zAxis := eye.Sub(target).Normalize()
	if zAxis.IsZero() {
		return Identity(), ErrDegenerateBasis
	}
	xAxis := up.Cross(zAxis).Normalize()
	if xAxis.IsZero() {
		return Identity(), ErrDegenerateBasis
	}
	yAxis := zAxis.Cross(xAxis)

	return Mat4{
		xAxis.X, xAxis.Y, xAxis.Z, 0,
		yAxis.X, yAxis.Y, yAxis.Z, 0,
		zAxis.X, zAxis.Y, zAxis.Z, 0,
		eye.X, eye.Y, eye.Z, 1,
	}, nil
}

// ViewingMatrix returns the world-to-camera matrix, the rigid inverse of
// CameraToWorld.
func ViewingMatrix(eye, target, up Vec3) (Mat4, error) {
	cam, err := CameraToWorld(eye, target, up)
	if err != nil {
		return Identity(), err
	}
	return cam.InverseRigid(), nil
}

// Frustum returns an asymmetric perspective projection for the given view
// volume. The near plane maps to NDC z=-1 and the far plane to z=+1.
func Frustum(left, right, bottom, top, near, far float32) (Mat4, error) {
	w := right - left
	h := top - bottom
	d := far - near
	if w == 0 || h == 0 || d == 0 {
		return Identity(), ErrDegenerateFrustum
	}

	return Mat4{
		2 * near / w, 0, 0, 0,
		0, 2 * near / h, 0, 0,
		(right + left) / w, (top + bottom) / h, -(far + near) / d, -1,
		0, 0, -2 * near * far / d, 0,
	}, nil
}

// Perspective returns a symmetric perspective projection matrix.
// fovY is in radians, aspect is width/height.
func Perspective(fovY, aspect, near, far float32) Mat4 {
	f := 1 / math32.Tan(fovY/2)
	nf := 1 / (near - far)

	return Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, (far + near) * nf, -1,
		0, 0, 2 * far * near * nf, 0,
	}
}

// Ortho returns an orthographic projection matrix.
func Ortho(left, right, bottom, top, near, far float32) Mat4 {
	rl := 1 / (right - left)
	tb := 1 / (top - bottom)
	fn := 1 / (far - near)

	return Mat4{
		2 * rl, 0, 0, 0,
		0, 2 * tb, 0, 0,
		0, 0, -2 * fn, 0,
		-(right + left) * rl, -(top + bottom) * tb, -(far + near) * fn, 1,
	}
}

// NormalMatrix returns transpose(inverse(upper 3x3 of modelView)) embedded
// in a Mat4. Surface normals must be transformed by this matrix, not by the
// model-view matrix, or non-uniform scale skews them. A singular input
// yields the identity.
func NormalMatrix(modelView Mat4) Mat4 {
	inv, ok := modelView.Upper3x3().Inverse()
	if !ok {
		return Identity()
	}
	return inv.Transpose().Mat4()
}

// DegToRad converts degrees to radians.
func DegToRad(deg float32) float32 {
	return deg * math32.Pi / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(rad float32) float32 {
	return rad * 180 / math32.Pi
}
