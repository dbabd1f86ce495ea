package model

// Store is the Model Store collaborator: the open document that owns levels,
// walls, catalog types and the elements the generator creates.
//
// Lookups may be called at any time. Every other method mutates the
// document and must run inside a mutation scope opened through a
// Transactor.
type Store interface {
	// FindLevelsByName returns the first level with each exact name.
	// Names without a match are absent from the result.
	FindLevelsByName(names ...string) map[string]*Level

	CreateWall(curve Segment, baseLevel ElementID, structural bool) (*Wall, error)
	// SetTopLevel binds the top of wall to level and returns the wall with
	// its updated height.
	SetTopLevel(wall, level ElementID) (*Wall, error)

	// FindFamilyType returns the first type in category whose name and
	// family name both match exactly.
	FindFamilyType(category Category, typeName, familyName string) (*FamilyType, bool)

	// ActivateType makes a type instantiable. Activating an active type is
	// a no-op.
	ActivateType(id ElementID) error

	CreateFamilyInstance(point Point3D, typ, host, level ElementID, structural StructuralType) (*FamilyInstance, error)

	DefaultRoofType() (*RoofType, bool)
	CreateWorkingPlane(origin Point3D, normal, up Vec3) (*Plane, error)

	// CreateExtrusionRoof returns a *GeometryError when the geometry engine
	// rejects the profile.
	CreateExtrusionRoof(footprint RoofFootprint, plane, level, roofType ElementID, start, depth float64) (*Roof, error)
}

// Transactor is the Transaction Service collaborator. RunInMutationScope
// runs body as one atomic unit: when body returns an error every mutation
// it made is rolled back and the error is returned.
type Transactor interface {
	RunInMutationScope(label string, body func() error) error
}
