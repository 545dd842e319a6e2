package artwork

import appErrors "artmarket/pkg/errors"

var (
	ErrArtworkNotFound   = appErrors.ErrArtworkNotFound
	ErrArtworkNotForSale = appErrors.ErrArtworkNotForSale
	ErrOutOfStock        = appErrors.ErrOutOfStock
	ErrOwnArtwork        = appErrors.ErrOwnArtwork
	ErrNotOwner          = appErrors.ErrNotOwner
)
