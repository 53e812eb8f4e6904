package site

// StageName identifies a build stage.
type StageName string

const (
	StagePrepareOutput  StageName = "prepare_output"
	StageStaticAssets   StageName = "static_assets"
	StageGlobalIndexes  StageName = "global_indexes"
	StageRenderProducts StageName = "render_products"
	StageVerifyLinks    StageName = "verify_links"
)

// StageDef pairs a stage name with its function.
type StageDef struct {
	Name StageName
	Fn   Stage
}
