package readers

import (
	"github.com/ufbxgo/ufbx/internal/ast"
	"github.com/ufbxgo/ufbx/internal/propsys"
)

// ReadMaterial reads a "Material" object node. Grounded on g3n-engine's
// phong.go property names (AmbientColor/DiffuseColor/SpecularColor),
// which match FBX's own material property names verbatim.
func ReadMaterial(n *ast.Node, id ElementID, templates *propsys.Props) *Material {
	mat := &Material{ID: id, Name: modelName(n)}
	mat.Props = ReadProps(n, templates)
	mat.AmbientColor = vec3Of(mat.Props, "AmbientColor", 0.2, 0.2, 0.2)
	mat.DiffuseColor = vec3Of(mat.Props, "DiffuseColor", 0.8, 0.8, 0.8)
	mat.SpecularColor = vec3Of(mat.Props, "SpecularColor", 0.2, 0.2, 0.2)
	return mat
}
