package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"

	"storefront_back_end/internal/database"
)

// UploadImage pousse une image produit/vendeur dans le bucket et retourne
// l'URL brute de l'objet
func UploadImage(ctx context.Context, prefix string, file *multipart.FileHeader) (string, error) {
	if database.MinIO == nil {
		return "", fmt.Errorf("MinIO non initialisé")
	}

	f, err := file.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	bucket := os.Getenv("MINIO_BUCKET")
	objectName := prefix + "/" + file.Filename

	_, err = database.MinIO.PutObject(ctx, bucket, objectName, f, file.Size,
		minio.PutObjectOptions{ContentType: file.Header.Get("Content-Type")})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("http://%s/%s/%s", os.Getenv("MINIO_ENDPOINT"), bucket, objectName), nil
}

// GenerateSignedURL génère une URL de lecture signée avec expiration
func GenerateSignedURL(ctx context.Context, objectPath string, duration time.Duration) (string, error) {
	if database.MinIO == nil {
		return objectPath, nil
	}

	bucket := os.Getenv("MINIO_BUCKET")

	// Ne garde que le chemin relatif au bucket si une URL complète est stockée
	key := objectPath
	if idx := strings.Index(objectPath, "/"+bucket+"/"); idx >= 0 {
		key = objectPath[idx+len(bucket)+2:]
	}

	presignedURL, err := database.MinIO.PresignedGetObject(ctx, bucket, key, duration, make(url.Values))
	if err != nil {
		return "", err
	}

	return presignedURL.String(), nil
}
