//go:build windows

package verify

import (
	"fmt"
	"strings"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	wintrustDLL = windows.NewLazySystemDLL("wintrust.dll")
	crypt32DLL  = windows.NewLazySystemDLL("crypt32.dll")
	versionDLL  = windows.NewLazySystemDLL("version.dll")

	procWinVerifyTrust         = wintrustDLL.NewProc("WinVerifyTrust")
	procCryptQueryObject       = crypt32DLL.NewProc("CryptQueryObject")
	procCryptMsgGetParam       = crypt32DLL.NewProc("CryptMsgGetParam")
	procCryptMsgClose          = crypt32DLL.NewProc("CryptMsgClose")
	procCertCloseStore         = crypt32DLL.NewProc("CertCloseStore")
	procCertFindCertInStore    = crypt32DLL.NewProc("CertFindCertificateInStore")
	procCertFreeCertContext    = crypt32DLL.NewProc("CertFreeCertificateContext")
	procCertGetNameString      = crypt32DLL.NewProc("CertGetNameStringW")
	procGetFileVersionInfoSize = versionDLL.NewProc("GetFileVersionInfoSizeW")
	procGetFileVersionInfo     = versionDLL.NewProc("GetFileVersionInfoW")
	procVerQueryValue          = versionDLL.NewProc("VerQueryValueW")
)

// WINTRUST_ACTION_GENERIC_VERIFY_V2 {00AAC56B-CD44-11D0-8CC2-00C04FC295EE}
var actionGenericVerifyV2 = windows.GUID{
	Data1: 0x00aac56b,
	Data2: 0xcd44,
	Data3: 0x11d0,
	Data4: [8]byte{0x8c, 0xc2, 0x00, 0xc0, 0x4f, 0xc2, 0x95, 0xee},
}

const (
	wtdUINone            = 2
	wtdRevokeNone        = 0
	wtdChoiceFile        = 1
	wtdStateActionVerify = 1
	wtdStateActionClose  = 2
	wtdHashOnlyFlag      = 0x200

	certQueryObjectFile                  = 1
	certQueryContentFlagPKCS7SignedEmbed = 1 << 10
	certQueryFormatFlagBinary            = 1 << 1
	x509ASNEncoding                      = 1
	pkcs7ASNEncoding                     = 0x10000
	cmsgSignerInfoParam                  = 6
	certFindSubjectCert                  = 0xB0000
	certNameSimpleDisplayType            = 4
	certNameIssuerFlag                   = 1
)

type cryptBlob struct {
	cbData uint32
	pbData *byte
}

type cryptAlgorithmIdentifier struct {
	pszObjId   *byte
	parameters cryptBlob
}

// Leading fields of CMSG_SIGNER_INFO; only Issuer and SerialNumber are read.
type cmsgSignerInfo struct {
	dwVersion               uint32
	issuer                  cryptBlob
	serialNumber            cryptBlob
	hashAlgorithm           cryptAlgorithmIdentifier
	hashEncryptionAlgorithm cryptAlgorithmIdentifier
	encryptedHash           cryptBlob
	authAttrs               [2]uintptr
	unauthAttrs             [2]uintptr
}

// CERT_INFO as consumed by CertFindCertificateInStore with
// CERT_FIND_SUBJECT_CERT: only Issuer and SerialNumber matter, but the
// layout up to and including Issuer must be exact.
type certInfo struct {
	dwVersion          uint32
	serialNumber       cryptBlob
	signatureAlgorithm cryptAlgorithmIdentifier
	issuer             cryptBlob
	notBefore          windows.Filetime
	notAfter           windows.Filetime
	subject            cryptBlob
	subjectPublicKeyInfo struct {
		algorithm cryptAlgorithmIdentifier
		publicKey struct {
			cbData      uint32
			pbData      *byte
			cUnusedBits uint32
		}
	}
	issuerUniqueID struct {
		cbData      uint32
		pbData      *byte
		cUnusedBits uint32
	}
	subjectUniqueID struct {
		cbData      uint32
		pbData      *byte
		cUnusedBits uint32
	}
	cExtension  uint32
	rgExtension uintptr
}

type winTrustFileInfo struct {
	cbStruct       uint32
	pcwszFilePath  *uint16
	hFile          windows.Handle
	pgKnownSubject *windows.GUID
}

type winTrustData struct {
	cbStruct            uint32
	pPolicyCallbackData uintptr
	pSIPClientData      uintptr
	dwUIChoice          uint32
	fdwRevocationChecks uint32
	dwUnionChoice       uint32
	pFile               *winTrustFileInfo
	dwStateAction       uint32
	hWVTStateData       windows.Handle
	pwszURLReference    *uint16
	dwProvFlags         uint32
	dwUIContext         uint32
	pSignatureSettings  uintptr
}

type platformVerifier struct{}

// NewPlatformVerifier returns the verifier backed by the Windows trust and
// version-information services.
func NewPlatformVerifier() Verifier {
	return platformVerifier{}
}

// VerifySignature runs WinVerifyTrust over the file and then compares the
// signing certificate's subject and issuer display names against the
// expected identities. The verdict is 0 on pass, the WinVerifyTrust status
// for trust failures, or -1 for identity mismatches and query failures.
func (platformVerifier) VerifySignature(path, expectedPublisher, expectedIssuer string, checkRootOfTrust bool) int {
	pathPtr, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return -1
	}

	fileInfo := winTrustFileInfo{
		pcwszFilePath: pathPtr,
	}
	fileInfo.cbStruct = uint32(unsafe.Sizeof(fileInfo))

	data := winTrustData{
		dwUIChoice:          wtdUINone,
		fdwRevocationChecks: wtdRevokeNone,
		dwUnionChoice:       wtdChoiceFile,
		pFile:               &fileInfo,
		dwStateAction:       wtdStateActionVerify,
	}
	data.cbStruct = uint32(unsafe.Sizeof(data))
	if !checkRootOfTrust {
		data.dwProvFlags |= wtdHashOnlyFlag
	}

	invalidHandle := ^uintptr(0) // no UI window
	status, _, _ := procWinVerifyTrust.Call(
		invalidHandle,
		uintptr(unsafe.Pointer(&actionGenericVerifyV2)),
		uintptr(unsafe.Pointer(&data)),
	)

	// Release the state data regardless of the verdict.
	data.dwStateAction = wtdStateActionClose
	procWinVerifyTrust.Call(
		invalidHandle,
		uintptr(unsafe.Pointer(&actionGenericVerifyV2)),
		uintptr(unsafe.Pointer(&data)),
	)

	if verdict := int(int32(status)); verdict != 0 {
		return verdict
	}

	publisher, issuer, err := signerNames(pathPtr)
	if err != nil {
		return -1
	}
	if !strings.EqualFold(publisher, expectedPublisher) || !strings.EqualFold(issuer, expectedIssuer) {
		return -1
	}
	return 0
}

// signerNames extracts the subject and issuer display names of the
// certificate that produced the file's embedded PKCS#7 signature.
func signerNames(pathPtr *uint16) (publisher, issuer string, err error) {
	var store, msg windows.Handle
	ret, _, callErr := procCryptQueryObject.Call(
		certQueryObjectFile,
		uintptr(unsafe.Pointer(pathPtr)),
		certQueryContentFlagPKCS7SignedEmbed,
		certQueryFormatFlagBinary,
		0,
		0, 0, 0,
		uintptr(unsafe.Pointer(&store)),
		uintptr(unsafe.Pointer(&msg)),
		0,
	)
	if ret == 0 {
		return "", "", fmt.Errorf("CryptQueryObject failed: %v", callErr)
	}
	defer procCertCloseStore.Call(uintptr(store), 0)
	defer procCryptMsgClose.Call(uintptr(msg))

	var size uint32
	ret, _, callErr = procCryptMsgGetParam.Call(uintptr(msg), cmsgSignerInfoParam, 0, 0, uintptr(unsafe.Pointer(&size)))
	if ret == 0 || size == 0 {
		return "", "", fmt.Errorf("CryptMsgGetParam size failed: %v", callErr)
	}
	buf := make([]byte, size)
	ret, _, callErr = procCryptMsgGetParam.Call(uintptr(msg), cmsgSignerInfoParam, 0, uintptr(unsafe.Pointer(&buf[0])), uintptr(unsafe.Pointer(&size)))
	if ret == 0 {
		return "", "", fmt.Errorf("CryptMsgGetParam failed: %v", callErr)
	}
	signer := (*cmsgSignerInfo)(unsafe.Pointer(&buf[0]))

	lookup := certInfo{
		issuer:       signer.issuer,
		serialNumber: signer.serialNumber,
	}
	certCtx, _, callErr := procCertFindCertInStore.Call(
		uintptr(store),
		x509ASNEncoding|pkcs7ASNEncoding,
		0,
		certFindSubjectCert,
		uintptr(unsafe.Pointer(&lookup)),
		0,
	)
	if certCtx == 0 {
		return "", "", fmt.Errorf("signing certificate not found in store: %v", callErr)
	}
	defer procCertFreeCertContext.Call(certCtx)

	publisher, err = certName(certCtx, 0)
	if err != nil {
		return "", "", err
	}
	issuer, err = certName(certCtx, certNameIssuerFlag)
	if err != nil {
		return "", "", err
	}
	return publisher, issuer, nil
}

func certName(certCtx uintptr, flags uint32) (string, error) {
	size, _, _ := procCertGetNameString.Call(certCtx, certNameSimpleDisplayType, uintptr(flags), 0, 0, 0)
	if size <= 1 {
		return "", fmt.Errorf("certificate has no name")
	}
	buf := make([]uint16, size)
	procCertGetNameString.Call(certCtx, certNameSimpleDisplayType, uintptr(flags), 0, uintptr(unsafe.Pointer(&buf[0])), size)
	return windows.UTF16ToString(buf), nil
}

// FileDescription reads the FileDescription string from the file's version
// resource, using the first language listed in the translation table.
func (platformVerifier) FileDescription(path string) (string, error) {
	pathPtr, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return "", err
	}

	size, _, callErr := procGetFileVersionInfoSize.Call(uintptr(unsafe.Pointer(pathPtr)), 0)
	if size == 0 {
		return "", fmt.Errorf("no version information in %s: %v", path, callErr)
	}

	block := make([]byte, size)
	ret, _, callErr := procGetFileVersionInfo.Call(uintptr(unsafe.Pointer(pathPtr)), 0, size, uintptr(unsafe.Pointer(&block[0])))
	if ret == 0 {
		return "", fmt.Errorf("GetFileVersionInfo failed for %s: %v", path, callErr)
	}

	type langCodepage struct {
		language uint16
		codepage uint16
	}
	var translations *langCodepage
	var translationsLen uint32
	subBlock, _ := windows.UTF16PtrFromString(`\VarFileInfo\Translation`)
	ret, _, _ = procVerQueryValue.Call(
		uintptr(unsafe.Pointer(&block[0])),
		uintptr(unsafe.Pointer(subBlock)),
		uintptr(unsafe.Pointer(&translations)),
		uintptr(unsafe.Pointer(&translationsLen)),
	)
	if ret == 0 || translationsLen < uint32(unsafe.Sizeof(langCodepage{})) {
		return "", fmt.Errorf("no translation table in %s", path)
	}
	first := *translations

	query, _ := windows.UTF16PtrFromString(fmt.Sprintf(`\StringFileInfo\%04x%04x\FileDescription`, first.language, first.codepage))
	var valuePtr *uint16
	var valueLen uint32
	ret, _, _ = procVerQueryValue.Call(
		uintptr(unsafe.Pointer(&block[0])),
		uintptr(unsafe.Pointer(query)),
		uintptr(unsafe.Pointer(&valuePtr)),
		uintptr(unsafe.Pointer(&valueLen)),
	)
	if ret == 0 || valueLen == 0 {
		return "", fmt.Errorf("no FileDescription in %s", path)
	}

	value := unsafe.Slice(valuePtr, valueLen)
	return windows.UTF16ToString(value), nil
}
