package guidemask

// identityTransform is the identity affine matrix.
var identityTransform = [6]float64{1, 0, 0, 1, 0, 0}

// computeLocalTransform computes the local affine matrix from the widget's
// layout properties. Returns [a, b, c, d, tx, ty].
//
// Composition order: Scale -> Translate(X, Y). Widgets do not rotate.
func computeLocalTransform(w *Widget) [6]float64 {
	return [6]float64{w.ScaleX, 0, 0, w.ScaleY, w.X, w.Y}
}

// multiplyAffine multiplies two 2D affine matrices: result = parent * child.
//
//	Matrix layout: [a, b, c, d, tx, ty]
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
func multiplyAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// invertAffine computes the inverse of a 2D affine matrix.
// Returns the identity matrix if the matrix is singular.
func invertAffine(m [6]float64) [6]float64 {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return identityTransform
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return [6]float64{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// updateWorldTransform recomputes a widget's worldTransform.
// parentRecomputed forces recomputation of this widget even if it's not dirty.
func updateWorldTransform(w *Widget, parentTransform [6]float64, parentRecomputed bool) {
	recompute := w.transformDirty || parentRecomputed
	if recompute {
		w.worldTransform = multiplyAffine(parentTransform, computeLocalTransform(w))
		w.transformDirty = false
	}
	for _, child := range w.children {
		updateWorldTransform(child, w.worldTransform, recompute)
	}
}

// refreshWorldTransform recomputes w's world transform from its ancestor
// chain. Used when a caller needs geometry outside the scene tick.
func refreshWorldTransform(w *Widget) [6]float64 {
	m := identityTransform
	var chain []*Widget
	for p := w; p != nil; p = p.Parent {
		chain = append(chain, p)
	}
	for i := len(chain) - 1; i >= 0; i-- {
		m = multiplyAffine(m, computeLocalTransform(chain[i]))
	}
	return m
}

// --- Layout setters ---

// SetPosition sets the widget's local X and Y and marks it dirty.
func (w *Widget) SetPosition(x, y float64) {
	w.X = x
	w.Y = y
	w.transformDirty = true
}

// SetSize sets the widget's Width and Height.
func (w *Widget) SetSize(width, height float64) {
	w.Width = width
	w.Height = height
}

// SetScale sets the widget's ScaleX and ScaleY and marks it dirty.
func (w *Widget) SetScale(sx, sy float64) {
	w.ScaleX = sx
	w.ScaleY = sy
	w.transformDirty = true
}

// MarkDirty marks the widget's transform as dirty, forcing recomputation
// on the next tick. Useful after bulk-setting fields directly.
func (w *Widget) MarkDirty() {
	w.transformDirty = true
}

// --- Coordinate conversion ---

// WorldToLocal converts a world-space point to this widget's local space.
func (w *Widget) WorldToLocal(wx, wy float64) (lx, ly float64) {
	return transformPoint(invertAffine(refreshWorldTransform(w)), wx, wy)
}

// LocalToWorld converts a local-space point to world space.
func (w *Widget) LocalToWorld(lx, ly float64) (wx, wy float64) {
	return transformPoint(refreshWorldTransform(w), lx, ly)
}

// WorldBounds returns the widget's axis-aligned bounds in world space.
func (w *Widget) WorldBounds() Rect {
	m := refreshWorldTransform(w)
	x0, y0 := transformPoint(m, 0, 0)
	x1, y1 := transformPoint(m, w.Width, w.Height)
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}
