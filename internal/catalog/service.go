package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"catalog-backend/internal/assetstore"
	"catalog-backend/internal/cache"
	"catalog-backend/internal/models"
)

// ErrCorruptProduct reports a Description/Item/Model slot that does not
// hold exactly one file. A listing never guesses which file wins.
var ErrCorruptProduct = errors.New("catalog: corrupt product folder")

const listKeyPrefix = "products:list:"

// Service implements the catalog operations over the asset-store folder
// convention: base/category/name with the four fixed subfolders. It owns
// the listing cache and serializes mutations per product.
type Service struct {
	store      assetstore.Store
	cache      *cache.Cache
	httpClient *http.Client
	basePath   string
	log        *zap.Logger

	locks *keyMutex
	group singleflight.Group
}

func NewService(store assetstore.Store, c *cache.Cache, basePath string, log *zap.Logger) *Service {
	return &Service{
		store:      store,
		cache:      c,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		basePath:   basePath,
		log:        log,
		locks:      newKeyMutex(),
	}
}

func productKey(category, name string) string {
	return category + "/" + name
}

func categoryCacheKey(category string) string {
	return listKeyPrefix + category + ":"
}

func listCacheKey(category, subcategory string) string {
	if subcategory == "" {
		subcategory = "all"
	}
	return categoryCacheKey(category) + subcategory
}

// Upload writes a complete product: description, item image, model image
// and each factory image, each an independent store call. There is no
// duplicate detection; identity is the folder path itself.
func (s *Service) Upload(ctx context.Context, req models.UploadProductRequest) error {
	category := Normalize(req.Category)
	name := Normalize(req.Name)

	s.locks.Lock(productKey(category, name))
	defer s.locks.Unlock(productKey(category, name))

	folder := productPath(s.basePath, category, name)

	// The store only materializes folders that hold files, so every slot
	// is created explicitly up front; otherwise a product with no factory
	// images would be missing its Factory_Images subfolder.
	for _, sub := range productSubfolders {
		if err := s.store.CreateFolder(ctx, sub, folder); err != nil {
			return errors.Wrapf(err, "create %s folder", sub)
		}
	}

	if _, err := s.store.Upload(ctx, encodeDescription(req.Description), descriptionFileName,
		BuildPath(folder, descriptionFolder)); err != nil {
		return errors.Wrap(err, "upload description")
	}
	if _, err := s.store.Upload(ctx, req.ProductImage.URL, itemFileName(category, name),
		BuildPath(folder, itemFolder)); err != nil {
		return errors.Wrap(err, "upload item image")
	}
	if _, err := s.store.Upload(ctx, req.ModelImage.URL, modelFileName(category, name),
		BuildPath(folder, modelFolder)); err != nil {
		return errors.Wrap(err, "upload model image")
	}
	for i, img := range req.FactoryImages {
		fileName := img.FileName
		if fileName == "" {
			fileName = fmt.Sprintf("factory_%d.jpg", i+1)
		}
		if _, err := s.store.Upload(ctx, img.URL, fileName, BuildPath(folder, factoryImagesFolder)); err != nil {
			return errors.Wrapf(err, "upload factory image %d", i+1)
		}
	}

	s.cache.DeleteByPrefix(categoryCacheKey(category))
	s.log.Info("product uploaded", zap.String("category", category), zap.String("name", name))
	return nil
}

// Update diffs old against new and touches only what changed. Returns
// false with a nil error when nothing differs (no store call, no cache
// op). On a rename, factory images are reconciled at the old path first
// so the diff always runs against a path that currently exists. Any
// change clears the whole cache. There is no rollback: an error partway
// through leaves whatever already happened in place.
func (s *Service) Update(ctx context.Context, old, updated models.Product) (bool, error) {
	oldCategory, oldName := Normalize(old.Category), Normalize(old.Name)
	newCategory, newName := Normalize(updated.Category), Normalize(updated.Name)

	nameChanged := oldCategory != newCategory || oldName != newName
	descriptionChanged := old.Description != updated.Description
	itemChanged := old.ProductImage != updated.ProductImage
	modelChanged := old.ModelImage != updated.ModelImage
	factoryChanged := !sameAssetRefs(old.FactoryImages, updated.FactoryImages)

	if !nameChanged && !descriptionChanged && !itemChanged && !modelChanged && !factoryChanged {
		return false, nil
	}

	s.lockProducts(productKey(oldCategory, oldName), productKey(newCategory, newName))
	defer s.unlockProducts(productKey(oldCategory, oldName), productKey(newCategory, newName))

	oldPath := productPath(s.basePath, oldCategory, oldName)
	newPath := productPath(s.basePath, newCategory, newName)

	if nameChanged {
		if factoryChanged {
			if err := s.reconcileFactoryImages(ctx, oldPath, old.FactoryImages, updated.FactoryImages); err != nil {
				return false, err
			}
		}
		if err := s.renameProduct(ctx, oldPath, newPath, newCategory, newName); err != nil {
			return false, err
		}
	} else if factoryChanged {
		if err := s.reconcileFactoryImages(ctx, oldPath, old.FactoryImages, updated.FactoryImages); err != nil {
			return false, err
		}
	}

	if descriptionChanged {
		if err := s.replaceSingleton(ctx, BuildPath(newPath, descriptionFolder), descriptionFileName,
			encodeDescription(updated.Description)); err != nil {
			return false, errors.Wrap(err, "replace description")
		}
	}
	if itemChanged {
		if err := s.replaceSingleton(ctx, BuildPath(newPath, itemFolder),
			itemFileName(newCategory, newName), updated.ProductImage.URL); err != nil {
			return false, errors.Wrap(err, "replace item image")
		}
	}
	if modelChanged {
		if err := s.replaceSingleton(ctx, BuildPath(newPath, modelFolder),
			modelFileName(newCategory, newName), updated.ModelImage.URL); err != nil {
			return false, errors.Wrap(err, "replace model image")
		}
	}

	s.cache.Clear()
	s.log.Info("product updated",
		zap.String("category", newCategory), zap.String("name", newName),
		zap.Bool("renamed", nameChanged))
	return true, nil
}

// Delete removes the product subtree. A missing product surfaces the
// store's not-found error unchanged.
func (s *Service) Delete(ctx context.Context, category, name string) error {
	category, name = Normalize(category), Normalize(name)

	s.locks.Lock(productKey(category, name))
	defer s.locks.Unlock(productKey(category, name))

	if err := s.store.DeleteFolder(ctx, productPath(s.basePath, category, name)); err != nil {
		return errors.Wrap(err, "delete product folder")
	}
	s.cache.DeleteByPrefix(categoryCacheKey(category))
	s.log.Info("product deleted", zap.String("category", category), zap.String("name", name))
	return nil
}

// List reconstructs every product under the category (optionally one
// subcategory level deeper) from the folder tree. Results are cached per
// (category, subcategory) until a mutation invalidates them or the TTL
// elapses; concurrent rebuilds of one key are collapsed.
func (s *Service) List(ctx context.Context, category, subcategory string) ([]models.Product, error) {
	category, subcategory = Normalize(category), Normalize(subcategory)
	key := listCacheKey(category, subcategory)

	if cached, found := s.cache.Get(key); found {
		return cached.([]models.Product), nil
	}

	result, err, _ := s.group.Do(key, func() (interface{}, error) {
		products, err := s.buildListing(ctx, category, subcategory)
		if err != nil {
			return nil, err
		}
		s.cache.Set(key, products)
		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]models.Product), nil
}

func (s *Service) buildListing(ctx context.Context, category, subcategory string) ([]models.Product, error) {
	listPath := BuildPath(s.basePath, category)
	if subcategory != "" {
		listPath = BuildPath(s.basePath, category, subcategory)
	}

	folders, err := s.store.List(ctx, listPath, assetstore.KindFolder)
	if err != nil {
		return nil, errors.Wrapf(err, "list category %q", category)
	}

	displayCategory := DisplayName(category)
	products := make([]models.Product, 0, len(folders))
	for i, folder := range folders {
		product, err := s.readProduct(ctx, BuildPath(listPath, folder.Name), folder.Name, displayCategory)
		if err != nil {
			return nil, err
		}
		// Positional, 1-based; not stable across concurrent mutation.
		product.ID = i + 1
		products = append(products, product)
	}
	return products, nil
}

// readProduct reassembles one virtual record from the four subfolders.
func (s *Service) readProduct(ctx context.Context, folder, folderName, displayCategory string) (models.Product, error) {
	descFile, err := s.singletonFile(ctx, folder, folderName, descriptionFolder)
	if err != nil {
		return models.Product{}, err
	}
	itemFile, err := s.singletonFile(ctx, folder, folderName, itemFolder)
	if err != nil {
		return models.Product{}, err
	}
	modelFile, err := s.singletonFile(ctx, folder, folderName, modelFolder)
	if err != nil {
		return models.Product{}, err
	}

	factoryFiles, err := s.store.List(ctx, BuildPath(folder, factoryImagesFolder), assetstore.KindFile)
	if err != nil {
		return models.Product{}, errors.Wrapf(err, "list factory images of %q", folderName)
	}
	factoryRefs := make([]models.AssetRef, 0, len(factoryFiles))
	for _, f := range factoryFiles {
		factoryRefs = append(factoryRefs, models.AssetRef{URL: f.URL, FileID: f.FileID})
	}

	description, err := s.fetchDescription(ctx, descFile.URL)
	if err != nil {
		return models.Product{}, err
	}

	return models.Product{
		Name:          DisplayName(folderName),
		Category:      displayCategory,
		Description:   description,
		ProductImage:  models.AssetRef{URL: itemFile.URL, FileID: itemFile.FileID},
		ModelImage:    models.AssetRef{URL: modelFile.URL, FileID: modelFile.FileID},
		FactoryImages: factoryRefs,
	}, nil
}

// singletonFile returns the one file a Description/Item/Model slot must
// hold, failing with ErrCorruptProduct on any other count.
func (s *Service) singletonFile(ctx context.Context, productFolder, folderName, slot string) (assetstore.Asset, error) {
	files, err := s.store.List(ctx, BuildPath(productFolder, slot), assetstore.KindFile)
	if err != nil {
		return assetstore.Asset{}, errors.Wrapf(err, "list %s of %q", slot, folderName)
	}
	if len(files) != 1 {
		return assetstore.Asset{}, errors.Wrapf(ErrCorruptProduct, "product %q: %d files in %s", folderName, len(files), slot)
	}
	return files[0], nil
}

// replaceSingleton swaps the single file of a slot: the replacement is
// uploaded first and the stale files deleted only once it is in place,
// so a crash between the two steps leaves an extra file, never none.
func (s *Service) replaceSingleton(ctx context.Context, folder, fileName, source string) error {
	uploaded, err := s.store.Upload(ctx, source, fileName, folder)
	if err != nil {
		return err
	}
	existing, err := s.store.List(ctx, folder, assetstore.KindFile)
	if err != nil {
		return err
	}
	for _, file := range existing {
		if file.FileID == uploaded.FileID {
			continue
		}
		if err := s.store.DeleteFile(ctx, file.FileID); err != nil {
			return err
		}
	}
	return nil
}

// reconcileFactoryImages uploads refs present only in next and deletes
// refs present only in prev, both keyed by file id.
func (s *Service) reconcileFactoryImages(ctx context.Context, productFolder string, prev, next []models.AssetRef) error {
	toUpload, toDelete := diffAssetRefs(prev, next)

	folder := BuildPath(productFolder, factoryImagesFolder)
	for i, ref := range toUpload {
		if _, err := s.store.Upload(ctx, ref.URL, factoryFileName(ref.URL, i), folder); err != nil {
			return errors.Wrap(err, "upload factory image")
		}
	}
	for _, ref := range toDelete {
		if err := s.store.DeleteFile(ctx, ref.FileID); err != nil {
			return errors.Wrapf(err, "delete factory image %q", ref.FileID)
		}
	}
	return nil
}

// renameProduct relocates the product subtree: create the destination
// folder, then per fixed subfolder create the destination slot and move
// the old one into it, then drop the old root.
func (s *Service) renameProduct(ctx context.Context, oldPath, newPath, newCategory, newName string) error {
	if err := s.store.CreateFolder(ctx, newName, BuildPath(s.basePath, newCategory)); err != nil {
		return errors.Wrap(err, "create renamed product folder")
	}
	for _, sub := range productSubfolders {
		if err := s.store.CreateFolder(ctx, sub, newPath); err != nil {
			return errors.Wrapf(err, "create %s", sub)
		}
		if err := s.store.MoveFolder(ctx, BuildPath(oldPath, sub), newPath); err != nil {
			// Trees written before slots were precreated may lack an
			// empty Factory_Images source; the folder created above
			// stands in for it.
			if errors.Is(err, assetstore.ErrNotFound) {
				continue
			}
			return errors.Wrapf(err, "move %s", sub)
		}
	}
	if err := s.store.DeleteFolder(ctx, oldPath); err != nil {
		return errors.Wrap(err, "delete old product folder")
	}
	return nil
}

// lockProducts acquires both product locks in a fixed order so two
// renames crossing each other cannot deadlock.
func (s *Service) lockProducts(a, b string) {
	if a == b {
		s.locks.Lock(a)
		return
	}
	keys := []string{a, b}
	sort.Strings(keys)
	s.locks.Lock(keys[0])
	s.locks.Lock(keys[1])
}

func (s *Service) unlockProducts(a, b string) {
	if a == b {
		s.locks.Unlock(a)
		return
	}
	keys := []string{a, b}
	sort.Strings(keys)
	s.locks.Unlock(keys[1])
	s.locks.Unlock(keys[0])
}

func itemFileName(category, name string) string {
	return fmt.Sprintf("%s__%s_product.jpg", category, name)
}

func modelFileName(category, name string) string {
	return fmt.Sprintf("%s__%s_model.jpg", category, name)
}

// factoryFileName derives an upload name from the source URL, falling
// back to a positional name for inline payloads.
func factoryFileName(source string, i int) string {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		if u, err := url.Parse(source); err == nil {
			if base := path.Base(u.Path); base != "." && base != "/" && base != "" {
				return base
			}
		}
	}
	return fmt.Sprintf("factory_%d.jpg", i+1)
}
