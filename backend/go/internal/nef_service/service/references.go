package service

import (
	"context"

	"NEF_Emulator/backend/go/internal/nef_service/store"
)

// ValidateReferences 依次检查 gNB、Cell、Path 是否存在，遇到第一个缺失的立即返回
// ReferenceNotFoundError。被引用的行以共享锁读取，因此应在写入 UE 的同一事务中调用，
// 这样在事务提交前这些行无法被删除。
func ValidateReferences(ctx context.Context, tx *store.Store, gnbID, cellID, pathID uint) error {
	if _, err := tx.GetGNB(ctx, gnbID, store.LockShare); err != nil {
		return referenceError(err, RefGNB, gnbID)
	}
	if _, err := tx.GetCell(ctx, cellID, store.LockShare); err != nil {
		return referenceError(err, RefCell, cellID)
	}
	if _, err := tx.GetPath(ctx, pathID, store.LockShare); err != nil {
		return referenceError(err, RefPath, pathID)
	}
	return nil
}

func referenceError(err error, ref Reference, id uint) error {
	if isRecordNotFound(err) {
		return &ReferenceNotFoundError{Ref: ref, ID: id}
	}
	return translate(err, nil, "validate "+string(ref))
}
