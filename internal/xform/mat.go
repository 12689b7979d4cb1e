package xform

// Mat3 is a 3x3 float32 matrix stored as three columns, matching the
// column-major layout GLSL and WGSL expect for mat3 uniforms. A Mat3 value
// can be written into a uniform buffer column by column without reshuffling.
type Mat3 struct {
	C0, C1, C2 Vec3
}

// Identity returns the 3x3 identity matrix.
func Identity() Mat3 {
	return Mat3{
		C0: Vec3{X: 1},
		C1: Vec3{Y: 1},
		C2: Vec3{Z: 1},
	}
}

// Mul returns the matrix product m * n, so that applying the result is
// equivalent to applying n first and m second.
func (m Mat3) Mul(n Mat3) Mat3 {
	return Mat3{
		C0: m.Apply(n.C0),
		C1: m.Apply(n.C1),
		C2: m.Apply(n.C2),
	}
}

// Apply returns the matrix-vector product m * v.
func (m Mat3) Apply(v Vec3) Vec3 {
	return Vec3{
		X: m.C0.X*v.X + m.C1.X*v.Y + m.C2.X*v.Z,
		Y: m.C0.Y*v.X + m.C1.Y*v.Y + m.C2.Y*v.Z,
		Z: m.C0.Z*v.X + m.C1.Z*v.Y + m.C2.Z*v.Z,
	}
}

// ApplyPoint transforms a 2D point through the matrix in homogeneous
// coordinates and collapses the result back to 2D.
func (m Mat3) ApplyPoint(p Vec2) Vec2 {
	return m.Apply(p.Expand(1)).Collapse()
}

// Transpose returns the transpose of m.
func (m Mat3) Transpose() Mat3 {
	return Mat3{
		C0: Vec3{X: m.C0.X, Y: m.C1.X, Z: m.C2.X},
		C1: Vec3{X: m.C0.Y, Y: m.C1.Y, Z: m.C2.Y},
		C2: Vec3{X: m.C0.Z, Y: m.C1.Z, Z: m.C2.Z},
	}
}

// Elements returns the nine matrix elements in column-major order,
// ready to upload as a GL mat3 uniform.
func (m Mat3) Elements() [9]float32 {
	return [9]float32{
		m.C0.X, m.C0.Y, m.C0.Z,
		m.C1.X, m.C1.Y, m.C1.Z,
		m.C2.X, m.C2.Y, m.C2.Z,
	}
}
