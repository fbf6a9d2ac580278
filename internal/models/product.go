package models

// AssetRef points at one uploaded file in the asset store. The store owns
// the bytes; the catalog only keeps the reference pair returned at upload.
type AssetRef struct {
	URL    string `json:"url"`
	FileID string `json:"fileId"`
}

// Product is a virtual record: it has no schema of its own and is
// reconstructed on read from the product's folder subtree. Identity is
// (category, name) after normalization, i.e. the folder path.
type Product struct {
	ID            int        `json:"id,omitempty"`
	Name          string     `json:"name" binding:"required"`
	Category      string     `json:"category" binding:"required"`
	Description   string     `json:"description"`
	ProductImage  AssetRef   `json:"product_image"`
	ModelImage    AssetRef   `json:"model_image"`
	FactoryImages []AssetRef `json:"factory_images"`
}

// ImagePayload is an image to be uploaded: a remote URL or an inline
// base64 payload; the asset store infers which.
type ImagePayload struct {
	URL      string `json:"url" binding:"required"`
	FileName string `json:"file_name,omitempty"`
}

// UploadProductRequest carries a new product.
type UploadProductRequest struct {
	Name          string         `json:"name" binding:"required"`
	Category      string         `json:"category" binding:"required"`
	Description   string         `json:"description"`
	ProductImage  ImagePayload   `json:"product_image" binding:"required"`
	ModelImage    ImagePayload   `json:"model_image" binding:"required"`
	FactoryImages []ImagePayload `json:"factory_images"`
}

// UpdateProductRequest is a full before/after pair; the service diffs the
// two records field by field and touches only what changed.
type UpdateProductRequest struct {
	OldData Product `json:"old_data" binding:"required"`
	NewData Product `json:"new_data" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}
