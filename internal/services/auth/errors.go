package auth

import apperrors "ledgerpay/internal/errors"

var ErrInvalidToken = apperrors.New(apperrors.CodeInvalidCredentials, "invalid or expired token")
