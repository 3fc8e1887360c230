package credential

// Claim names and fixed values of the verifiable-credential payload.
const (
	vcClaim             = "vc"
	vcTypeKey           = "type"
	vcContextKey        = "@context"
	vcCredentialSubject = "credentialSubject"
	vcAddressKey        = "address"

	verifiableCredentialType = "VerifiableCredential"
	addressCredentialType    = "AddressCredential"

	w3BaseContext = "https://www.w3.org/2018/credentials/v1"
	diContext     = "https://vocab.london.cloudapps.digital/contexts/identity-v1.jsonld"
)
