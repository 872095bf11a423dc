// Package media publishes rendered postcards to a public host so emails can
// link to them instead of carrying multi-megabyte attachments.
//
// Three Uploader implementations are provided:
//
//   - CloudinaryUploader posts to an unsigned upload preset and returns the
//     asset's secure_url.
//   - S3Uploader puts the object into a bucket (AWS or S3-compatible) and
//     returns the bucket's public URL for the key.
//   - LocalUploader writes to a directory for development.
//
// Object names come from ObjectName and are unique per upload:
//
//	name := media.ObjectName("postcards", time.Now(), ".jpg")
//	url, err := uploader.Upload(ctx, media.Object{Name: name, Data: jpg, ContentType: "image/jpeg"})
//
// All upload failures wrap ErrUploadFailed.
package media
